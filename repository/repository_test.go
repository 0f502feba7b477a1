package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatame-app/tatame/models"
	"github.com/tatame-app/tatame/repository"
	testingutil "github.com/tatame-app/tatame/testing"
	"github.com/tatame-app/tatame/utils"
)

func TestMemberRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewMemberRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("SaveAndByUUID", func(t *testing.T) {
			member, err := testDB.InsertTestMember("Ana Souza", "ana@example.com", models.MemberStatusAtivo)
			require.NoError(t, err)
			assert.NotZero(t, member.ID)

			found, err := repo.ByUUID(ctx, member.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, member.ID, found.ID)
			assert.Equal(t, "ana@example.com", found.Email)
		})

		t.Run("ByEmail", func(t *testing.T) {
			_, err := testDB.InsertTestMember("Bruno Lima", "bruno@example.com", models.MemberStatusLead)
			require.NoError(t, err)

			found, err := repo.ByEmail(ctx, "bruno@example.com")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, models.MemberStatusLead, found.Status)

			missing, err := repo.ByEmail(ctx, "nobody@example.com")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("UpdateStatus", func(t *testing.T) {
			member, err := testDB.InsertTestMember("Carla Dias", "carla@example.com", models.MemberStatusAtivo)
			require.NoError(t, err)

			require.NoError(t, repo.UpdateStatus(ctx, member.ID, models.MemberStatusBloqueado))

			reloaded, err := repo.ByID(ctx, member.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.Equal(t, models.MemberStatusBloqueado, reloaded.Status)
		})

		t.Run("DecrementCredits", func(t *testing.T) {
			member, err := testDB.InsertTestMember("Diego Alves", "diego@example.com", models.MemberStatusAtivo)
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(&models.Member{}).
				Where("id = ?", member.ID).
				Update("credits_remaining", 2).Error)

			ok, err := repo.DecrementCredits(ctx, member.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = repo.DecrementCredits(ctx, member.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			// Balance is now zero; the guard must refuse a third take
			ok, err = repo.DecrementCredits(ctx, member.ID)
			require.NoError(t, err)
			assert.False(t, ok)

			reloaded, err := repo.ByID(ctx, member.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded.CreditsRemaining)
			assert.Equal(t, 0, *reloaded.CreditsRemaining)
		})

		t.Run("FreezeWindowLifecycle", func(t *testing.T) {
			member, err := testDB.InsertTestMember("Elisa Prado", "elisa@example.com", models.MemberStatusAtivo)
			require.NoError(t, err)

			now := utils.UTCNow()
			until := now.Add(10 * 24 * time.Hour)
			newExpiry := now.Add(40 * 24 * time.Hour)
			require.NoError(t, repo.SetFreezeWindow(ctx, member.ID, now, until, &newExpiry))

			frozen, err := repo.ByID(ctx, member.ID)
			require.NoError(t, err)
			assert.Equal(t, models.MemberStatusPausado, frozen.Status)
			require.NotNil(t, frozen.FrozenUntil)

			// Not due yet
			due, err := repo.ListFreezesDue(ctx, now, 10)
			require.NoError(t, err)
			assert.Empty(t, due)

			// Due once the cutoff passes the window end
			due, err = repo.ListFreezesDue(ctx, until.Add(time.Minute), 10)
			require.NoError(t, err)
			require.Len(t, due, 1)
			assert.Equal(t, member.ID, due[0].ID)

			require.NoError(t, repo.ClearFreezeWindow(ctx, member.ID))

			reloaded, err := repo.ByID(ctx, member.ID)
			require.NoError(t, err)
			assert.Equal(t, models.MemberStatusAtivo, reloaded.Status)
			assert.Nil(t, reloaded.FrozenAt)
			assert.Nil(t, reloaded.FrozenUntil)
		})

		t.Run("CountByStatus", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			_, err := testDB.InsertTestMember("F1", "f1@example.com", models.MemberStatusAtivo)
			require.NoError(t, err)
			_, err = testDB.InsertTestMember("F2", "f2@example.com", models.MemberStatusCancelado)
			require.NoError(t, err)

			count, err := repo.Count(ctx, models.MemberFilter{Status: utils.ToPtr(models.MemberStatusAtivo)})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestDiscountRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewDiscountRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("ListActive", func(t *testing.T) {
			tiers, err := testDB.InsertCommitmentDiscounts()
			require.NoError(t, err)
			require.NoError(t, repo.Deactivate(ctx, tiers[0].ID))

			active, err := repo.ListActive(ctx)
			require.NoError(t, err)
			assert.Len(t, active, 2)
			for _, d := range active {
				assert.True(t, d.Active)
			}
		})

		t.Run("IncrementUsageRespectsCap", func(t *testing.T) {
			promo := &models.Discount{
				Name:     "Primeira Aula",
				Category: models.DiscountCategoryPromo,
				Type:     models.DiscountTypePercentage,
				Value:    20,
				Code:     utils.ToPtr("BEMVINDO20"),
				MaxUses:  utils.ToPtr(2),
				Active:   true,
			}
			require.NoError(t, testDB.DB.Create(promo).Error)

			ok, err := repo.IncrementUsage(ctx, promo.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = repo.IncrementUsage(ctx, promo.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			// Cap reached
			ok, err = repo.IncrementUsage(ctx, promo.ID)
			require.NoError(t, err)
			assert.False(t, ok)

			reloaded, err := repo.ByID(ctx, promo.ID)
			require.NoError(t, err)
			assert.Equal(t, 2, reloaded.CurrentUses)
		})

		t.Run("IncrementUsageUnlimited", func(t *testing.T) {
			promo := &models.Discount{
				Name:     "Sem Limite",
				Category: models.DiscountCategoryPromo,
				Type:     models.DiscountTypeFixed,
				Value:    1000,
				Code:     utils.ToPtr("SEMLIMITE"),
				Active:   true,
			}
			require.NoError(t, testDB.DB.Create(promo).Error)

			for i := 0; i < 3; i++ {
				ok, err := repo.IncrementUsage(ctx, promo.ID)
				require.NoError(t, err)
				assert.True(t, ok)
			}
		})

		t.Run("ByCode", func(t *testing.T) {
			rows, err := repo.ByFilter(ctx, models.DiscountFilter{Code: utils.ToPtr("BEMVINDO20")}, "", 1, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "Primeira Aula", rows[0].Name)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCashSessionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewCashSessionRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		staff, err := testDB.InsertTestStaff("Recepção", "recepcao@example.com", "senha-forte", models.StaffRoleReception)
		require.NoError(t, err)

		t.Run("OpenByStaff", func(t *testing.T) {
			none, err := repo.OpenByStaff(ctx, staff.ID)
			require.NoError(t, err)
			assert.Nil(t, none)

			session := &models.CashSession{
				StaffID:      staff.ID,
				Status:       models.CashSessionOpen,
				OpeningCents: 20000,
				OpenedAt:     utils.UTCNow(),
			}
			require.NoError(t, repo.Save(ctx, session))

			open, err := repo.OpenByStaff(ctx, staff.ID)
			require.NoError(t, err)
			require.NotNil(t, open)
			assert.Equal(t, session.ID, open.ID)
		})

		t.Run("AddToExpectedAndClose", func(t *testing.T) {
			open, err := repo.OpenByStaff(ctx, staff.ID)
			require.NoError(t, err)
			require.NotNil(t, open)

			require.NoError(t, repo.AddToExpected(ctx, open.ID, 15000))
			require.NoError(t, repo.AddToExpected(ctx, open.ID, 5000))

			// Drawer counted R$ 399,50 against R$ 200 float + R$ 200 cash
			require.NoError(t, repo.Close(ctx, open.ID, 39950, -50, utils.UTCNow()))

			closed, err := repo.ByID(ctx, open.ID)
			require.NoError(t, err)
			assert.Equal(t, models.CashSessionClosed, closed.Status)
			assert.Equal(t, int64(20000), closed.ExpectedCents)
			require.NotNil(t, closed.CountedCents)
			assert.Equal(t, int64(39950), *closed.CountedCents)
			require.NotNil(t, closed.DifferenceCents)
			assert.Equal(t, int64(-50), *closed.DifferenceCents)

			// A reconciled drawer takes no more payments
			err = repo.AddToExpected(ctx, open.ID, 1000)
			assert.Error(t, err)

			none, err := repo.OpenByStaff(ctx, staff.ID)
			require.NoError(t, err)
			assert.Nil(t, none)
		})

		return nil
	})
	require.NoError(t, err)
}
