package service

import (
	"ai_academy_backend/internal/model"
	"ai_academy_backend/internal/repository"
	"ai_academy_backend/internal/util"
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CreateUserInput 创建用户时允许写入的字段，密码必填
type CreateUserInput struct {
	Username   string `json:"username" validate:"required,max=150"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	FirstName  string `json:"first_name" validate:"max=150"`
	LastName   string `json:"last_name" validate:"max=150"`
	Department string `json:"department" validate:"max=100"`
	Role       string `json:"role" validate:"omitempty,oneof=admin student"`
	TimeSpent  int    `json:"time_spent" validate:"min=0"`
}

// UpdateUserInput 只更新请求中出现的字段
type UpdateUserInput struct {
	Username   *string `json:"username" validate:"omitempty,max=150"`
	Email      *string `json:"email" validate:"omitempty,email,max=254"`
	Password   *string `json:"password" validate:"omitempty,min=8,max=128"`
	FirstName  *string `json:"first_name" validate:"omitempty,max=150"`
	LastName   *string `json:"last_name" validate:"omitempty,max=150"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Role       *string `json:"role" validate:"omitempty,oneof=admin student"`
	TimeSpent  *int    `json:"time_spent" validate:"omitempty,min=0"`
}

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.UserRepo.List(ctx)
}

// SearchUsers 按用户名、邮箱、部门模糊搜索
func (s *UserService) SearchUsers(ctx context.Context, q string) ([]model.User, error) {
	return s.UserRepo.Search(ctx, strings.TrimSpace(q))
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	return user, notFound(err, util.ErrUserNotFound)
}

func (s *UserService) GetUserDetail(ctx context.Context, id uint) (*model.UserDetail, error) {
	detail, err := s.UserRepo.FindDetail(ctx, id)
	return detail, notFound(err, util.ErrUserNotFound)
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:   in.Username,
		Email:      in.Email,
		Password:   string(hashed),
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Department: in.Department,
		Role:       model.UserRole(in.Role),
		TimeSpent:  in.TimeSpent,
	}
	if user.Department == "" {
		user.Department = model.DefaultDepartment
	}
	if user.Role == "" {
		user.Role = model.Student
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, duplicate(err, "email", "user with this email already exists")
	}
	return user, nil
}

// UpdateUser 仅在提供了新密码时重新计算哈希
func (s *UserService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	username, email := user.Username, user.Email
	if in.Username != nil {
		username = *in.Username
	}
	if in.Email != nil {
		email = *in.Email
	}
	if err := s.checkUnique(ctx, username, email, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Username != nil {
		if *in.Username == "" {
			return nil, util.NewValidationError("username", "this field may not be blank")
		}
		fields["username"] = *in.Username
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if in.Department != nil {
		fields["department"] = *in.Department
	}
	if in.Role != nil && *in.Role != "" {
		fields["role"] = *in.Role
	}
	if in.TimeSpent != nil {
		fields["time_spent"] = *in.TimeSpent
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		fields["password"] = string(hashed)
	}

	if err := s.UserRepo.Updates(ctx, user, fields); err != nil {
		return nil, duplicate(err, "email", "user with this email already exists")
	}
	return s.GetUser(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return notFound(s.UserRepo.Delete(ctx, id), util.ErrUserNotFound)
}

// CheckPassword 校验明文密码与存储的哈希是否匹配
func (s *UserService) CheckPassword(user *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

func (s *UserService) checkUnique(ctx context.Context, username, email string, excludeID uint) error {
	ve := &util.ValidationError{}

	taken, err := s.UserRepo.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		ve.Add("username", "a user with that username already exists")
	}

	taken, err = s.UserRepo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		ve.Add("email", "user with this email already exists")
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}
