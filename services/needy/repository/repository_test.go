package repository

import (
	"context"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"needy/config"
	"needy/domain"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.AutoMigrate(database))
	return database
}

func seedAdmin(t *testing.T, database *gorm.DB, first, last string) *domain.Admin {
	t.Helper()
	admin := &domain.Admin{FirstName: first, LastName: last, UserRole: domain.RoleAdmin, Password: "x"}
	require.NoError(t, database.Create(admin).Error)
	return admin
}

func TestRegisterRepository_CreateAndGet(t *testing.T) {
	database := setupSQLiteDB(t)
	repo := NewRegisterRepository(database, quietLogger())
	ctx := context.Background()

	reg := &domain.Register{FirstName: "Zahra", LastName: "Karimi", Phone: strPtr("0912"), PhoneNormalized: strPtr("0912")}
	require.NoError(t, repo.CreateRegister(ctx, reg))
	assert.NotZero(t, reg.RegisterID)

	got, err := repo.GetRegisterByID(ctx, reg.RegisterID)
	require.NoError(t, err)
	assert.Equal(t, "Zahra", got.FirstName)
	assert.False(t, got.IsDisconnected)

	byPhone, err := repo.GetRegisterByNormalizedPhone(ctx, "0912")
	require.NoError(t, err)
	assert.Equal(t, reg.RegisterID, byPhone.RegisterID)

	_, err = repo.GetRegisterByID(ctx, reg.RegisterID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterRepository_DuplicateNormalizedPhone(t *testing.T) {
	database := setupSQLiteDB(t)
	repo := NewRegisterRepository(database, quietLogger())
	ctx := context.Background()

	require.NoError(t, repo.CreateRegister(ctx, &domain.Register{FirstName: "A", LastName: "B", PhoneNormalized: strPtr("0912")}))
	err := repo.CreateRegister(ctx, &domain.Register{FirstName: "C", LastName: "D", PhoneNormalized: strPtr("0912")})
	assert.ErrorIs(t, err, domain.ErrDuplicatePhone)
}

func TestRegisterRepository_ChildrenAndGoods(t *testing.T) {
	database := setupSQLiteDB(t)
	repo := NewRegisterRepository(database, quietLogger())
	ctx := context.Background()
	admin := seedAdmin(t, database, "Ali", "Rezaei")

	reg := &domain.Register{FirstName: "Zahra", LastName: "Karimi"}
	require.NoError(t, repo.CreateRegister(ctx, reg))

	children := []domain.ChildrenOfRegister{
		{RegisterID: reg.RegisterID, FirstName: strPtr("Sara"), Age: intPtr(7)},
		{RegisterID: reg.RegisterID, FirstName: strPtr("Reza")},
	}
	require.NoError(t, repo.CreateChildren(ctx, children))
	require.NoError(t, repo.CreateChildren(ctx, nil))

	gotChildren, err := repo.GetChildrenByRegisterID(ctx, reg.RegisterID)
	require.NoError(t, err)
	require.Len(t, *gotChildren, 2)
	assert.Equal(t, 7, *(*gotChildren)[0].Age)
	assert.Nil(t, (*gotChildren)[1].Age)

	goods := []domain.Good{
		{TypeGood: "Rice", NumberGood: intPtr(2), GivenToWhome: reg.RegisterID, GivenBy: admin.AdminID},
		{TypeGood: "Oil", GivenToWhome: reg.RegisterID, GivenBy: admin.AdminID},
	}
	require.NoError(t, repo.CreateGoods(ctx, goods))

	gotGoods, err := repo.GetGoodsByRegisterID(ctx, reg.RegisterID)
	require.NoError(t, err)
	require.Len(t, *gotGoods, 2)
	assert.Equal(t, "Rice", (*gotGoods)[0].TypeGood)

	last, err := repo.LastCreatedGood(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "Oil", last.TypeGood)
}

func TestRegisterRepository_ApplyGoodSync(t *testing.T) {
	database := setupSQLiteDB(t)
	repo := NewRegisterRepository(database, quietLogger())
	ctx := context.Background()
	admin := seedAdmin(t, database, "Ali", "Rezaei")

	reg := &domain.Register{FirstName: "Zahra", LastName: "Karimi"}
	require.NoError(t, repo.CreateRegister(ctx, reg))
	goods := []domain.Good{
		{TypeGood: "Rice", GivenToWhome: reg.RegisterID, GivenBy: admin.AdminID},
		{TypeGood: "Oil", GivenToWhome: reg.RegisterID, GivenBy: admin.AdminID},
	}
	require.NoError(t, repo.CreateGoods(ctx, goods))

	keep := goods[0]
	keep.NumberGood = intPtr(5)
	plan := &domain.GoodSyncPlan{
		RegisterID: reg.RegisterID,
		Updates:    []domain.Good{keep},
		Inserts:    []domain.Good{{TypeGood: "Flour", GivenToWhome: reg.RegisterID, GivenBy: admin.AdminID}},
		DeleteIDs:  []int{goods[1].GoodID},
	}
	require.NoError(t, repo.ApplyGoodSync(ctx, plan))

	got, err := repo.GetGoodsByRegisterID(ctx, reg.RegisterID)
	require.NoError(t, err)
	require.Len(t, *got, 2)
	assert.Equal(t, "Rice", (*got)[0].TypeGood)
	assert.Equal(t, 5, *(*got)[0].NumberGood)
	assert.Equal(t, "Flour", (*got)[1].TypeGood)
}

func TestRegisterRepository_DeleteCascade(t *testing.T) {
	database := setupSQLiteDB(t)
	repo := NewRegisterRepository(database, quietLogger())
	ctx := context.Background()
	admin := seedAdmin(t, database, "Ali", "Rezaei")

	reg := &domain.Register{FirstName: "Zahra", LastName: "Karimi"}
	other := &domain.Register{FirstName: "Maryam", LastName: "Ahmadi"}
	require.NoError(t, repo.CreateRegister(ctx, reg))
	require.NoError(t, repo.CreateRegister(ctx, other))
	require.NoError(t, repo.CreateChildren(ctx, []domain.ChildrenOfRegister{{RegisterID: reg.RegisterID}}))
	require.NoError(t, repo.CreateChildren(ctx, []domain.ChildrenOfRegister{{RegisterID: other.RegisterID}}))
	require.NoError(t, repo.CreateGoods(ctx, []domain.Good{{TypeGood: "Rice", GivenToWhome: reg.RegisterID, GivenBy: admin.AdminID}}))
	require.NoError(t, database.Create(&domain.Message{MessageText: strPtr("hi"), GivenToWhome: &reg.RegisterID}).Error)

	require.NoError(t, repo.DeleteRegisterCascade(ctx, reg.RegisterID))

	_, err := repo.GetRegisterByID(ctx, reg.RegisterID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var children, goods, messages int64
	database.Model(&domain.ChildrenOfRegister{}).Where("register_id = ?", reg.RegisterID).Count(&children)
	database.Model(&domain.Good{}).Where("given_to_whome = ?", reg.RegisterID).Count(&goods)
	database.Model(&domain.Message{}).Where("given_to_whome = ?", reg.RegisterID).Count(&messages)
	assert.Zero(t, children)
	assert.Zero(t, goods)
	assert.Zero(t, messages)

	otherChildren, err := repo.GetChildrenByRegisterID(ctx, other.RegisterID)
	require.NoError(t, err)
	assert.Len(t, *otherChildren, 1)
}

func TestRegisterRepository_FindRegisters(t *testing.T) {
	database := setupSQLiteDB(t)
	repo := NewRegisterRepository(database, quietLogger())
	ctx := context.Background()

	require.NoError(t, repo.CreateRegister(ctx, &domain.Register{FirstName: "Zahra", LastName: "Karimi", City: strPtr("Tehran")}))
	require.NoError(t, repo.CreateRegister(ctx, &domain.Register{FirstName: "Maryam", LastName: "Karimi", City: strPtr("Shiraz")}))

	found, err := repo.FindRegisters(ctx, &domain.RegisterFilter{LastName: strPtr("Karimi"), City: strPtr("Tehran")})
	require.NoError(t, err)
	require.Len(t, *found, 1)
	assert.Equal(t, "Zahra", (*found)[0].FirstName)

	all, err := repo.FindRegisters(ctx, &domain.RegisterFilter{})
	require.NoError(t, err)
	assert.Len(t, *all, 2)
}

func TestRegisterRepository_FindNeedyLocations(t *testing.T) {
	database := setupSQLiteDB(t)
	repo := NewRegisterRepository(database, quietLogger())
	ctx := context.Background()
	admin := seedAdmin(t, database, "Ali", "Rezaei")

	require.NoError(t, repo.CreateRegister(ctx, &domain.Register{
		FirstName: "Zahra", LastName: "Karimi", Latitude: strPtr("35.7"), Longitude: strPtr("51.4"),
		UnderWhichAdmin: &admin.AdminID,
	}))
	require.NoError(t, repo.CreateRegister(ctx, &domain.Register{FirstName: "No", LastName: "Coords"}))
	require.NoError(t, repo.CreateRegister(ctx, &domain.Register{FirstName: "Empty", LastName: "Lat", Latitude: strPtr(""), Longitude: strPtr("51")}))
	require.NoError(t, repo.CreateRegister(ctx, &domain.Register{
		FirstName: "Gone", LastName: "Away", Latitude: strPtr("30"), Longitude: strPtr("50"), IsDisconnected: true,
	}))

	connected, err := repo.FindNeedyLocations(ctx, false)
	require.NoError(t, err)
	require.Len(t, *connected, 1)
	row := (*connected)[0]
	assert.Equal(t, "35.7", row.Latitude)
	assert.Equal(t, "Ali", *row.AdminFirstName)

	disconnected, err := repo.FindNeedyLocations(ctx, true)
	require.NoError(t, err)
	require.Len(t, *disconnected, 1)
	assert.Equal(t, "Gone", *(*disconnected)[0].FirstName)
}

func TestAdminRepository(t *testing.T) {
	database := setupSQLiteDB(t)
	repo := NewAdminRepository(database, quietLogger())
	ctx := context.Background()

	first, err := repo.FirstAdminID(ctx)
	require.NoError(t, err)
	assert.Nil(t, first)

	last, err := repo.LastCreatedAdmin(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	a := &domain.Admin{FirstName: "Ali", LastName: "Rezaei", Phone: strPtr("0912"), Email: strPtr("ali@example.com"), Password: "x"}
	b := &domain.Admin{FirstName: "Reza", LastName: "Moradi", Password: "x", UserRole: domain.RoleGroupAdmin}
	require.NoError(t, repo.CreateAdmin(ctx, a))
	require.NoError(t, repo.CreateAdmin(ctx, b))
	assert.Equal(t, domain.RoleAdmin, a.UserRole)

	first, err = repo.FirstAdminID(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, a.AdminID, *first)

	byLogin, err := repo.GetAdminByLogin(ctx, "ali@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.AdminID, byLogin.AdminID)

	admins, err := repo.GetAdminsByIDs(ctx, []int{a.AdminID, b.AdminID})
	require.NoError(t, err)
	assert.Len(t, *admins, 2)

	total, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	require.NoError(t, repo.DeleteAdmin(ctx, b.AdminID))
	assert.ErrorIs(t, repo.DeleteAdmin(ctx, b.AdminID), domain.ErrNotFound)
}

func TestStatsRepository(t *testing.T) {
	database := setupSQLiteDB(t)
	regs := NewRegisterRepository(database, quietLogger())
	stats := NewStatsRepository(database, quietLogger())
	ctx := context.Background()
	admin := seedAdmin(t, database, "Ali", "Rezaei")

	r1 := &domain.Register{FirstName: "A", LastName: "A", Province: strPtr("Tehran"), EducationLevel: strPtr("Primary"), UnderWhichAdmin: &admin.AdminID}
	r2 := &domain.Register{FirstName: "B", LastName: "B", Province: strPtr("Tehran"), UnderWhichAdmin: &admin.AdminID}
	r3 := &domain.Register{FirstName: "C", LastName: "C"}
	for _, r := range []*domain.Register{r1, r2, r3} {
		require.NoError(t, regs.CreateRegister(ctx, r))
	}
	require.NoError(t, regs.CreateChildren(ctx, []domain.ChildrenOfRegister{
		{RegisterID: r1.RegisterID}, {RegisterID: r1.RegisterID}, {RegisterID: r2.RegisterID},
	}))
	require.NoError(t, regs.CreateGoods(ctx, []domain.Good{
		{TypeGood: "Rice", GivenToWhome: r1.RegisterID, GivenBy: admin.AdminID},
		{TypeGood: "Rice", GivenToWhome: r1.RegisterID, GivenBy: admin.AdminID},
		{TypeGood: "Rice", GivenToWhome: r2.RegisterID, GivenBy: admin.AdminID},
	}))

	byAdmin, err := stats.CountByAdmin(ctx)
	require.NoError(t, err)
	require.Len(t, *byAdmin, 1)
	assert.Equal(t, domain.AdminCount{AdminID: admin.AdminID, Total: 2}, (*byAdmin)[0])

	byProvince, err := stats.CountByProvince(ctx)
	require.NoError(t, err)
	require.Len(t, *byProvince, 2)
	assert.Equal(t, "Tehran", *(*byProvince)[0].Label)
	assert.EqualValues(t, 2, (*byProvince)[0].Total)
	assert.Nil(t, (*byProvince)[1].Label)

	byGood, err := stats.CountByGoodType(ctx)
	require.NoError(t, err)
	require.Len(t, *byGood, 1)
	assert.EqualValues(t, 2, (*byGood)[0].Total)

	buckets, err := stats.ChildrenPerRegister(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.BucketCount{{Children: 1, Total: 1}, {Children: 2, Total: 1}}, *buckets)

	total, err := stats.CountRegisters(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestPhoneCheckers(t *testing.T) {
	database := setupSQLiteDB(t)
	regs := NewRegisterRepository(database, quietLogger())
	ctx := context.Background()

	reg := &domain.Register{FirstName: "A", LastName: "B", Phone: strPtr("۰۹۱۲۳۴۵۶۷۸۹"), PhoneNormalized: strPtr("09123456789")}
	require.NoError(t, regs.CreateRegister(ctx, reg))

	checkers := map[string]domain.PhoneUniquenessChecker{
		PhoneGuardScan:  NewPhoneChecker(PhoneGuardScan, database, regs, quietLogger()),
		PhoneGuardIndex: NewPhoneChecker(PhoneGuardIndex, database, regs, quietLogger()),
	}
	for name, checker := range checkers {
		t.Run(name, func(t *testing.T) {
			taken, err := checker.IsPhoneTaken(ctx, "09123456789", nil)
			require.NoError(t, err)
			assert.True(t, taken)

			taken, err = checker.IsPhoneTaken(ctx, " 09123456789 ", &reg.RegisterID)
			require.NoError(t, err)
			assert.False(t, taken)

			taken, err = checker.IsPhoneTaken(ctx, "09000000000", nil)
			require.NoError(t, err)
			assert.False(t, taken)

			taken, err = checker.IsPhoneTaken(ctx, "  ", nil)
			require.NoError(t, err)
			assert.False(t, taken)
		})
	}
}

func TestInternationalNumber(t *testing.T) {
	cases := map[string]string{
		"09123456789":    "989123456789",
		"۰۹۱۲۳۴۵۶۷۸۹":    "989123456789",
		"+989123456789":  "989123456789",
		"00989123456789": "989123456789",
		"989123456789":   "989123456789",
		"0912-345 6789":  "989123456789",
	}
	for in, want := range cases {
		assert.Equal(t, want, InternationalNumber(in, "98"), in)
	}
}
