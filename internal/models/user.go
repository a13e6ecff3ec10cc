package models

import (
	"errors"
	"regexp"
	"time"

	errs "Disastrous/pkg/errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleRescue = "rescue"
	// RoleAny 用于 RoleRequired：任何已登录用户
	RoleAny = "any"
)

var (
	ErrInvalidCredentials = errs.WithCode(errs.CodeUnauthorized, "invalid email or password")
	ErrEmailTaken         = errs.WithCode(errs.CodeInvalid, "email already registered")
	ErrInvalidPincode     = errs.WithCode(errs.CodeInvalid, "pincode must be 6 digits")
)

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// 授权账号（admin / rescue）
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:256"`
	PasswordHash string    `json:"-" gorm:"size:128"`
	Role         string    `json:"role" gorm:"size:32"` // "admin" or "rescue"
	Street       string    `json:"street" gorm:"size:256"`
	Locality     string    `json:"locality" gorm:"size:128"`
	City         string    `json:"city" gorm:"size:128"`
	State        string    `json:"state" gorm:"size:128"`
	Pincode      string    `json:"pincode" gorm:"size:6"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// BeforeSave 校验 pincode（可选字段，6位数字）
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Pincode != "" && !pincodePattern.MatchString(u.Pincode) {
		return ErrInvalidPincode
	}
	return nil
}

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// RegisterUser 注册救援账号
func RegisterUser(db *gorm.DB, email, password, role string) (*User, error) {
	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	user := &User{Email: email, Role: role}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate 按邮箱查找并校验口令（bcrypt，不做明文比较）
func Authenticate(db *gorm.DB, email, password string) (*User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUserByID 获取用户
func GetUserByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserAddress 更新地址信息（profile 编辑）
func UpdateUserAddress(db *gorm.DB, id uint, street, locality, city, state, pincode string) (*User, error) {
	user, err := GetUserByID(db, id)
	if err != nil {
		return nil, err
	}
	user.Street = street
	user.Locality = locality
	user.City = city
	user.State = state
	user.Pincode = pincode
	if err := db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SeedDefaultAccounts 启动时播种 admin / rescue 账号，存在则跳过
func SeedDefaultAccounts(db *gorm.DB, adminEmail, adminPassword string) error {
	seeds := []struct {
		email, password, role string
	}{
		{adminEmail, adminPassword, RoleAdmin},
		{"rescue@disastrous.local", adminPassword, RoleRescue},
	}
	for _, s := range seeds {
		if s.password == "" {
			continue
		}
		var count int64
		if err := db.Model(&User{}).Where("email = ?", s.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if _, err := RegisterUser(db, s.email, s.password, s.role); err != nil {
			return err
		}
	}
	return nil
}
