package auth

import (
	"errors"

	"go-pos-sync/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash is compared against when the username does not exist, so the
// not-found path costs the same bcrypt work as a wrong password.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

const invalidCredentials = "invalid username or password"

// SessionUser is the user record handed to the presentation layer after a
// successful login.
type SessionUser struct {
	ID          uint   `json:"id"`
	CompanyID   *uint  `json:"company_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	Fullname    string `json:"fullname"`
	IsActive    bool   `json:"is_active"`
	CompanyName string `json:"company_name"`
	RoleID      uint   `json:"role_id"`
	RoleName    string `json:"role_name"`
}

// ModulePermission is one module's access flags in the effective set.
type ModulePermission struct {
	Module    string `json:"module"`
	CanView   bool   `json:"can_view"`
	CanCreate bool   `json:"can_create"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

// Result is what Authenticate returns. Bad credentials are a normal result
// with Success=false, never an error.
type Result struct {
	Success     bool               `json:"success"`
	User        *SessionUser       `json:"user,omitempty"`
	Permissions []ModulePermission `json:"permissions,omitempty"`
	Message     string             `json:"message,omitempty"`
}

// Authenticate checks a username/password pair against the local store and,
// on success, resolves the user's role and effective permission set. The
// returned error is for storage failures only.
func Authenticate(db *gorm.DB, username, password string) (*Result, error) {
	var user models.User
	err := db.Where("username = ? AND is_active = ?", username, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Burn the same bcrypt cost as a real comparison.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return &Result{Success: false, Message: invalidCredentials}, nil
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return &Result{Success: false, Message: invalidCredentials}, nil
	}

	sessionUser := &SessionUser{
		ID:        user.ID,
		CompanyID: user.CompanyID,
		Username:  user.Username,
		Role:      user.Role,
		Fullname:  user.Fullname,
		IsActive:  user.IsActive,
	}

	if user.CompanyID != nil {
		var company models.Company
		if err := db.First(&company, *user.CompanyID).Error; err == nil {
			sessionUser.CompanyName = company.Name
		}
	}

	role, err := resolveRole(db, user.Role, user.CompanyID)
	if err != nil {
		return nil, err
	}

	var stored []models.Permission
	if role != nil {
		sessionUser.RoleID = role.ID
		sessionUser.RoleName = role.Name
		if err := db.Where("role_id = ?", role.ID).Find(&stored).Error; err != nil {
			return nil, err
		}
	}

	return &Result{
		Success:     true,
		User:        sessionUser,
		Permissions: EffectivePermissions(ParseRoleKind(user.Role), stored),
	}, nil
}

// resolveRole looks up the Role row matching a user's role tag. A role
// scoped to the user's company wins over a system-wide template of the
// same name. A missing row is not an error; the caller falls back to an
// empty permission set.
func resolveRole(db *gorm.DB, name string, companyID *uint) (*models.Role, error) {
	var role models.Role

	if companyID != nil {
		err := db.Where("name = ? AND company_id = ?", name, *companyID).First(&role).Error
		if err == nil {
			return &role, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err := db.Where("name = ? AND company_id IS NULL", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// EffectivePermissions applies the admin bypass rule. Admin and super-admin
// roles get every module with all four flags; everyone else gets exactly
// the stored rows that grant view access. No stored rows means no modules.
func EffectivePermissions(kind RoleKind, stored []models.Permission) []ModulePermission {
	if kind.BypassesPermissions() {
		all := make([]ModulePermission, 0, len(Modules))
		for _, module := range Modules {
			all = append(all, ModulePermission{
				Module:    module,
				CanView:   true,
				CanCreate: true,
				CanEdit:   true,
				CanDelete: true,
			})
		}
		return all
	}

	effective := make([]ModulePermission, 0, len(stored))
	for _, p := range stored {
		if !p.CanView {
			continue
		}
		effective = append(effective, ModulePermission{
			Module:    p.Module,
			CanView:   p.CanView,
			CanCreate: p.CanCreate,
			CanEdit:   p.CanEdit,
			CanDelete: p.CanDelete,
		})
	}
	return effective
}
