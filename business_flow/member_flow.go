package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/tatame-app/tatame/app/dto"
	"github.com/tatame-app/tatame/config"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	"github.com/tatame-app/tatame/utils"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MemberFlow manages the member roster: leads, listings and front-desk photos
type MemberFlow interface {
	RegisterLead(ctx context.Context, req *dto.RegisterLeadRequest, metadata *ClientMetadata) (*dto.RegisterLeadResponse, error)
	ListMembers(ctx context.Context, req *dto.ListMembersRequest, metadata *ClientMetadata) (*dto.ListMembersResponse, error)
	GetMember(ctx context.Context, memberUUID string, metadata *ClientMetadata) (*dto.GetMemberResponse, error)
	UpdateMemberStatus(ctx context.Context, req *dto.UpdateMemberStatusRequest, metadata *ClientMetadata) (*dto.UpdateMemberStatusResponse, error)
	UploadPhoto(ctx context.Context, memberUUID string, photo []byte, metadata *ClientMetadata) (*dto.UploadMemberPhotoResponse, error)
}

// MemberFlowImpl implements MemberFlow
type MemberFlowImpl struct {
	memberRepo repository.MemberRepository
	uploadsCfg config.UploadsConfig
}

func NewMemberFlow(memberRepo repository.MemberRepository, uploadsCfg config.UploadsConfig) MemberFlow {
	return &MemberFlowImpl{memberRepo: memberRepo, uploadsCfg: uploadsCfg}
}

func (f *MemberFlowImpl) RegisterLead(ctx context.Context, req *dto.RegisterLeadRequest, metadata *ClientMetadata) (*dto.RegisterLeadResponse, error) {
	existing, err := f.memberRepo.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewBusinessError("MEMBER_LOOKUP_FAILED", "Failed to check email", err)
	}
	if existing != nil {
		return nil, NewBusinessError("EMAIL_ALREADY_EXISTS", "Já existe um cadastro com este e-mail", ErrEmailAlreadyExists)
	}

	member := models.Member{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: models.MemberStatusLead,
	}
	if err := f.memberRepo.Save(ctx, &member); err != nil {
		return nil, NewBusinessError("MEMBER_SAVE_FAILED", "Failed to save member", err)
	}

	return &dto.RegisterLeadResponse{
		Message: "Cadastro criado",
		Member:  ToMemberDTO(member),
	}, nil
}

func (f *MemberFlowImpl) ListMembers(ctx context.Context, req *dto.ListMembersRequest, metadata *ClientMetadata) (*dto.ListMembersResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := models.MemberFilter{}
	if req.Status != nil {
		filter.Status = utils.ToPtr(models.MemberStatus(*req.Status))
	}

	rows, err := f.memberRepo.ByFilter(ctx, filter, "name ASC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("MEMBER_LIST_FAILED", "Failed to list members", err)
	}
	total, err := f.memberRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("MEMBER_COUNT_FAILED", "Failed to count members", err)
	}

	items := make([]dto.MemberDTO, 0, len(rows))
	for _, m := range rows {
		items = append(items, ToMemberDTO(*m))
	}
	return &dto.ListMembersResponse{Message: "Alunos listados", Items: items, Total: total}, nil
}

func (f *MemberFlowImpl) GetMember(ctx context.Context, memberUUID string, metadata *ClientMetadata) (*dto.GetMemberResponse, error) {
	member, err := f.memberRepo.ByUUID(ctx, memberUUID)
	if err != nil {
		return nil, NewBusinessError("MEMBER_LOOKUP_FAILED", "Failed to lookup member", err)
	}
	if member == nil {
		return nil, NewBusinessError("MEMBER_NOT_FOUND", "Aluno não encontrado", ErrMemberNotFound)
	}
	return &dto.GetMemberResponse{Message: "Aluno encontrado", Member: ToMemberDTO(*member)}, nil
}

func (f *MemberFlowImpl) UpdateMemberStatus(ctx context.Context, req *dto.UpdateMemberStatusRequest, metadata *ClientMetadata) (*dto.UpdateMemberStatusResponse, error) {
	member, err := f.memberRepo.ByUUID(ctx, req.MemberUUID)
	if err != nil {
		return nil, NewBusinessError("MEMBER_LOOKUP_FAILED", "Failed to lookup member", err)
	}
	if member == nil {
		return nil, NewBusinessError("MEMBER_NOT_FOUND", "Aluno não encontrado", ErrMemberNotFound)
	}

	// Frozen members leave PAUSADO through the unfreeze flow so the
	// freeze window is cleared along with the status.
	if member.Status == models.MemberStatusPausado {
		return nil, NewBusinessError("MEMBER_FROZEN", "Descongele a assinatura antes de alterar a situação", ErrMemberAlreadyFrozen)
	}

	status := models.MemberStatus(req.Status)
	if err := f.memberRepo.UpdateStatus(ctx, member.ID, status); err != nil {
		return nil, NewBusinessError("MEMBER_STATUS_UPDATE_FAILED", "Failed to update member status", err)
	}
	member.Status = status

	return &dto.UpdateMemberStatusResponse{
		Message: "Situação atualizada",
		Member:  ToMemberDTO(*member),
	}, nil
}

func (f *MemberFlowImpl) UploadPhoto(ctx context.Context, memberUUID string, photo []byte, metadata *ClientMetadata) (*dto.UploadMemberPhotoResponse, error) {
	member, err := f.memberRepo.ByUUID(ctx, memberUUID)
	if err != nil {
		return nil, NewBusinessError("MEMBER_LOOKUP_FAILED", "Failed to lookup member", err)
	}
	if member == nil {
		return nil, NewBusinessError("MEMBER_NOT_FOUND", "Aluno não encontrado", ErrMemberNotFound)
	}

	if int64(len(photo)) > f.uploadsCfg.MaxPhotoSize {
		return nil, NewBusinessError("PHOTO_TOO_LARGE", fmt.Sprintf("Foto excede o limite de %d bytes", f.uploadsCfg.MaxPhotoSize), nil)
	}

	img, _, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		return nil, NewBusinessError("PHOTO_DECODE_FAILED", "Formato de imagem não reconhecido", err)
	}

	// The front desk only ever shows the thumbnail, so that is all we keep
	thumb := resizePhoto(img, f.uploadsCfg.ThumbnailSize)
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, NewBusinessError("PHOTO_ENCODE_FAILED", "Failed to encode photo", err)
	}

	dir := filepath.Join(f.uploadsCfg.Dir, "members")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, NewBusinessError("PHOTO_SAVE_FAILED", "Failed to prepare upload directory", err)
	}
	photoPath := filepath.Join(dir, member.UUID.String()+".jpg")
	if err := os.WriteFile(photoPath, buf.Bytes(), 0o644); err != nil {
		return nil, NewBusinessError("PHOTO_SAVE_FAILED", "Failed to save photo", err)
	}

	member.PhotoPath = &photoPath
	if err := f.memberRepo.Update(ctx, member); err != nil {
		return nil, NewBusinessError("MEMBER_SAVE_FAILED", "Failed to save member", err)
	}

	return &dto.UploadMemberPhotoResponse{
		Message:  "Foto atualizada",
		PhotoURL: photoPath,
	}, nil
}

// resizePhoto scales the image down so its longest edge fits maxDim, padding
// nothing. Smaller images pass through untouched.
func resizePhoto(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		nh = maxDim
		nw = int(float64(w) * float64(maxDim) / float64(h))
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	imagedraw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, imagedraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
