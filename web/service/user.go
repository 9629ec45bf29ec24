package service

import (
	"errors"

	"loctrack/database"
	"loctrack/database/model"
	"loctrack/util/crypto"
)

// ErrDuplicateUsername is returned when a username is already taken,
// whether caught by the pre-check or by the unique index on write.
var ErrDuplicateUsername = errors.New("username already exists")

// UserService persists accounts. Passwords are bcrypt-hashed before they
// ever reach the store; the plaintext is never persisted or logged.
type UserService struct{}

// UserUpdate is a partial account update. Nil fields are left untouched.
type UserUpdate struct {
	Username   *string
	Password   *string
	IsTerminal *bool
}

func (s *UserService) CreateUser(username string, password string, isTerminal bool) (*model.User, error) {
	db := database.GetDB()

	var count int64
	err := db.Model(model.User{}).
		Where("username = ?", username).
		Count(&count).
		Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		IsTerminal:   isTerminal,
	}
	if err := db.Create(user).Error; err != nil {
		// Two registrations can race past the pre-check; the unique
		// index on username is the arbiter.
		if database.IsDuplicateKey(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUsers() ([]model.User, error) {
	db := database.GetDB()

	var users []model.User
	err := db.Model(model.User{}).
		Preload("Locations").
		Order("id ASC").
		Find(&users).
		Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) GetUser(id int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Preload("Locations").
		Where("id = ?", id).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(username string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies a partial update to the account. A new password is
// re-hashed before storing; the id is never changed.
func (s *UserService) UpdateUser(user *model.User, upd UserUpdate) error {
	db := database.GetDB()

	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.Password != nil {
		hash, err := crypto.HashPasswordAsBcrypt(*upd.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	if upd.IsTerminal != nil {
		user.IsTerminal = *upd.IsTerminal
	}

	err := db.Save(user).Error
	if database.IsDuplicateKey(err) {
		return ErrDuplicateUsername
	}
	return err
}

// DeleteUser removes the account. Owned locations go with it via the
// ON DELETE CASCADE constraint.
func (s *UserService) DeleteUser(id int) error {
	db := database.GetDB()
	return db.Delete(&model.User{}, id).Error
}

// CheckPassword verifies a candidate password against the stored hash.
func (s *UserService) CheckPassword(user *model.User, password string) bool {
	return crypto.CheckPasswordHash(user.PasswordHash, password)
}
