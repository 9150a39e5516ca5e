package service

import (
	"Cinebase/internal/api/dto"
	"Cinebase/internal/model"
	"Cinebase/internal/pkg/consts"
	"Cinebase/internal/pkg/security"
	"Cinebase/internal/repository"
	"context"
	log "log/slog"
	"time"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (uint64, error)
	Login(ctx context.Context, req *dto.LoginDTO) (*dto.TokenDTO, error)
	GetProfile(ctx context.Context, userID uint64) (*dto.UserDTO, error)
	// GetInterests 返回用户当前的正向兴趣档案
	GetInterests(ctx context.Context, userID uint64) ([]*dto.InterestDTO, error)
	// GetLikedMovies 用户点赞过的影片，按点赞时间倒序分页
	GetLikedMovies(ctx context.Context, userID uint64, limit, offset int) ([]*dto.LikedMovieDTO, error)
}

type userServiceImpl struct {
	userRepo     repository.UserRepo
	interestRepo repository.InterestRepo
	categoryRepo repository.CategoryRepo
	movieRepo    repository.MovieRepo
	actionRepo   repository.MovieActionRepo
}

func NewUserService(
	userRepo repository.UserRepo,
	interestRepo repository.InterestRepo,
	categoryRepo repository.CategoryRepo,
	movieRepo repository.MovieRepo,
	actionRepo repository.MovieActionRepo,
) UserService {
	return &userServiceImpl{
		userRepo:     userRepo,
		interestRepo: interestRepo,
		categoryRepo: categoryRepo,
		movieRepo:    movieRepo,
		actionRepo:   actionRepo,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (uint64, error) {
	existing, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		log.ErrorContext(ctx, "failed to check username", "username", req.Username, "error", err)
		return 0, UnExpectedError
	}
	if existing != nil {
		return 0, ErrUserExist
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		log.ErrorContext(ctx, "failed to hash password", "error", err)
		return 0, UnExpectedError
	}

	user := &model.User{
		Username:     req.Username,
		Password:     hashed,
		Role:         consts.RoleUser,
		Status:       model.UserStatusActive,
		LastActiveAt: time.Now(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if repository.IsDuplicateKeyError(err) {
			return 0, ErrUserExist
		}
		log.ErrorContext(ctx, "failed to create user", "username", req.Username, "error", err)
		return 0, UnExpectedError
	}
	return user.ID, nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.TokenDTO, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrMissingLoginCredentials
	}

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		log.ErrorContext(ctx, "failed to load user", "username", req.Username, "error", err)
		return nil, UnExpectedError
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Status == model.UserStatusBanned {
		return nil, ErrUserBan
	}
	if err := security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.ErrorContext(ctx, "failed to sign token", "user_id", user.ID, "error", err)
		return nil, UnExpectedError
	}

	// 登录也算活跃，顺手把沉默用户捞回来
	if err := s.userRepo.TouchLastActive(ctx, user.ID); err != nil {
		log.WarnContext(ctx, "failed to touch user activity", "user_id", user.ID, "error", err)
	}

	return &dto.TokenDTO{Token: token}, nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load user", "user_id", userID, "error", err)
		return nil, UnExpectedError
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &dto.UserDTO{
		ID:           user.ID,
		Username:     user.Username,
		Role:         user.Role,
		Status:       user.Status,
		LastActiveAt: user.LastActiveAt.Format(time.RFC3339),
	}, nil
}

func (s *userServiceImpl) GetInterests(ctx context.Context, userID uint64) ([]*dto.InterestDTO, error) {
	interests, err := s.interestRepo.ListPositive(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load interests", "user_id", userID, "error", err)
		return nil, UnExpectedError
	}

	result := make([]*dto.InterestDTO, 0, len(interests))
	for _, it := range interests {
		item := &dto.InterestDTO{CategoryID: it.CategoryID, Score: it.Score}
		category, err := s.categoryRepo.GetCategoryByID(ctx, it.CategoryID)
		if err != nil {
			log.WarnContext(ctx, "failed to resolve interest category", "category_id", it.CategoryID, "error", err)
		} else if category != nil {
			item.CategoryName = category.Name
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *userServiceImpl) GetLikedMovies(ctx context.Context, userID uint64, limit, offset int) ([]*dto.LikedMovieDTO, error) {
	if userID == 0 || limit <= 0 || offset < 0 {
		return nil, ErrParamInvalid
	}

	ids, err := s.actionRepo.GetLikedMovieIDs(ctx, userID, limit, offset)
	if err != nil {
		log.ErrorContext(ctx, "failed to load liked movie ids", "user_id", userID, "error", err)
		return nil, UnExpectedError
	}
	if len(ids) == 0 {
		return []*dto.LikedMovieDTO{}, nil
	}

	movies, err := s.movieRepo.GetMovieByIDs(ctx, ids)
	if err != nil {
		log.ErrorContext(ctx, "failed to load liked movies", "user_id", userID, "error", err)
		return nil, UnExpectedError
	}
	byID := make(map[uint64]*model.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}

	// 已下架的影片从列表里静默消失，保持点赞时间倒序
	result := make([]*dto.LikedMovieDTO, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			continue
		}
		result = append(result, &dto.LikedMovieDTO{
			ID:         m.ID,
			Title:      m.Title,
			PosterURL:  m.PosterURL,
			Year:       m.Year,
			ViewsCount: m.ViewsCount,
			LikesCount: m.LikesCount,
		})
	}
	return result, nil
}
