package auth

import (
	"path/filepath"
	"testing"

	"go-pos-sync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "auth_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username, password, role string, companyID *uint) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		CompanyID:    companyID,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Fullname:     "Test " + username,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestParseRoleKind(t *testing.T) {
	cases := map[string]RoleKind{
		"super_admin": RoleSuperAdmin,
		"Super Admin": RoleSuperAdmin,
		"SUPERADMIN":  RoleSuperAdmin,
		"super-admin": RoleSuperAdmin,
		"admin":       RoleAdmin,
		"Admin":       RoleAdmin,
		"cashier":     RoleStandard,
		"manager":     RoleStandard,
		"":            RoleStandard,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseRoleKind(input), "input %q", input)
	}
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid credentials return the session record", func(t *testing.T) {
		db := newTestDB(t)

		company := models.Company{Name: "Corner Shop", IsActive: true}
		require.NoError(t, db.Create(&company).Error)
		createUser(t, db, "jo", "secret99", "cashier", &company.ID)

		role := models.Role{Name: "cashier", CompanyID: nil, IsSystem: true}
		require.NoError(t, db.Create(&role).Error)
		require.NoError(t, db.Create(&models.Permission{
			RoleID: role.ID, Module: "sales", CanView: true, CanCreate: true,
		}).Error)

		result, err := Authenticate(db, "jo", "secret99")
		require.NoError(t, err)
		require.True(t, result.Success)
		require.NotNil(t, result.User)
		assert.Equal(t, "jo", result.User.Username)
		assert.Equal(t, "Corner Shop", result.User.CompanyName)
		assert.Equal(t, role.ID, result.User.RoleID)
		require.Len(t, result.Permissions, 1)
		assert.Equal(t, "sales", result.Permissions[0].Module)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		db := newTestDB(t)
		createUser(t, db, "jo", "secret99", "cashier", nil)

		wrongPassword, err := Authenticate(db, "jo", "nope")
		require.NoError(t, err)
		unknownUser, err := Authenticate(db, "nobody", "nope")
		require.NoError(t, err)

		assert.False(t, wrongPassword.Success)
		assert.False(t, unknownUser.Success)
		assert.Equal(t, wrongPassword.Message, unknownUser.Message)
		assert.Nil(t, wrongPassword.User)
		assert.Nil(t, unknownUser.User)
	})

	t.Run("inactive users cannot log in", func(t *testing.T) {
		db := newTestDB(t)
		user := createUser(t, db, "jo", "secret99", "cashier", nil)
		require.NoError(t, db.Model(&user).Update("is_active", false).Error)

		result, err := Authenticate(db, "jo", "secret99")
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("company role beats system template of the same name", func(t *testing.T) {
		db := newTestDB(t)

		company := models.Company{Name: "Corner Shop", IsActive: true}
		require.NoError(t, db.Create(&company).Error)
		createUser(t, db, "jo", "secret99", "cashier", &company.ID)

		system := models.Role{Name: "cashier", CompanyID: nil, IsSystem: true}
		require.NoError(t, db.Create(&system).Error)
		scoped := models.Role{Name: "cashier", CompanyID: &company.ID}
		require.NoError(t, db.Create(&scoped).Error)

		result, err := Authenticate(db, "jo", "secret99")
		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Equal(t, scoped.ID, result.User.RoleID)
	})

	t.Run("non-admin with no permission rows sees zero modules", func(t *testing.T) {
		db := newTestDB(t)
		createUser(t, db, "jo", "secret99", "cashier", nil)
		// Role row exists but has no permissions seeded
		require.NoError(t, db.Create(&models.Role{Name: "cashier", IsSystem: true}).Error)

		result, err := Authenticate(db, "jo", "secret99")
		require.NoError(t, err)
		require.True(t, result.Success)
		assert.Empty(t, result.Permissions)
	})

	t.Run("admin bypasses stored permissions entirely", func(t *testing.T) {
		db := newTestDB(t)

		company := models.Company{Name: "Corner Shop", IsActive: true}
		require.NoError(t, db.Create(&company).Error)
		createUser(t, db, "boss", "secret99", "admin", &company.ID)

		// A stored row that would deny everything; the bypass ignores it
		role := models.Role{Name: "admin", CompanyID: &company.ID}
		require.NoError(t, db.Create(&role).Error)
		require.NoError(t, db.Create(&models.Permission{
			RoleID: role.ID, Module: "sales", CanView: false,
		}).Error)

		result, err := Authenticate(db, "boss", "secret99")
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Len(t, result.Permissions, len(Modules))
		for _, p := range result.Permissions {
			assert.True(t, p.CanView)
			assert.True(t, p.CanCreate)
			assert.True(t, p.CanEdit)
			assert.True(t, p.CanDelete)
		}
	})
}

func TestEffectivePermissions(t *testing.T) {
	t.Run("standard roles only keep rows granting view", func(t *testing.T) {
		stored := []models.Permission{
			{Module: "sales", CanView: true, CanCreate: true},
			{Module: "reports", CanView: false, CanEdit: true},
		}
		effective := EffectivePermissions(RoleStandard, stored)
		require.Len(t, effective, 1)
		assert.Equal(t, "sales", effective[0].Module)
	})

	t.Run("empty stored set stays empty for standard roles", func(t *testing.T) {
		assert.Empty(t, EffectivePermissions(RoleStandard, nil))
	})

	t.Run("super admin gets every module", func(t *testing.T) {
		effective := EffectivePermissions(RoleSuperAdmin, nil)
		assert.Len(t, effective, len(Modules))
	})
}
