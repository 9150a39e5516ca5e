package service

import (
	"Cinebase/internal/api/dto"
	"Cinebase/internal/model"
	"Cinebase/internal/pkg/consts"
	"Cinebase/internal/pkg/es"
	"Cinebase/internal/pkg/minio"
	"Cinebase/internal/pkg/redis"
	"Cinebase/internal/pkg/util"
	"Cinebase/internal/repository"
	"bytes"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const (
	posterImportTimeout = 15 * time.Second
	posterImportLockTTL = 30 * time.Second
	posterMaxBytes      = 10 << 20
)

type MovieService interface {
	CreateMovie(ctx context.Context, req *dto.MovieBaseDTO) (uint64, error)
	UpdateMovie(ctx context.Context, movieID uint64, req *dto.MovieBaseDTO) error
	UpdateMovieStatus(ctx context.Context, movieID uint64, status int8) error
	DeleteMovie(ctx context.Context, movieID uint64) error
	GetMovie(ctx context.Context, movieID uint64) (*dto.MovieDTO, error)
	ListMovies(ctx context.Context, page, pageSize int) ([]*dto.MovieDTO, error)
	// SearchMovies 优先走 ES，故障时退化到数据库标题模糊搜索
	SearchMovies(ctx context.Context, keyword string, page, pageSize int) ([]*dto.MovieDTO, error)

	// UploadPoster 上传海报文件，归一化后存入对象存储并更新影片
	UploadPoster(ctx context.Context, movieID uint64, r io.Reader) (string, error)
	// ImportPoster 从外部 URL 抓取海报，带分布式锁防止并发重复抓取
	ImportPoster(ctx context.Context, movieID uint64, url string) (string, error)

	AddVideo(ctx context.Context, movieID uint64, req *dto.VideoBaseDTO) (uint64, error)
	RemoveVideo(ctx context.Context, movieID, videoID uint64) error
}

type movieServiceImpl struct {
	movieRepo    repository.MovieRepo
	categoryRepo repository.CategoryRepo
	esRepo       es.MovieRepo
	httpClient   *resty.Client
}

func NewMovieService(movieRepo repository.MovieRepo, categoryRepo repository.CategoryRepo, esRepo es.MovieRepo) MovieService {
	return &movieServiceImpl{
		movieRepo:    movieRepo,
		categoryRepo: categoryRepo,
		esRepo:       esRepo,
		httpClient: resty.New().
			SetTimeout(posterImportTimeout).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(3)),
	}
}

func (s *movieServiceImpl) CreateMovie(ctx context.Context, req *dto.MovieBaseDTO) (uint64, error) {
	movie := &model.Movie{
		Title:       req.Title,
		Description: req.Description,
		Year:        req.Year,
		PosterURL:   req.PosterURL,
		Status:      consts.MovieStatusNormal,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if movie.PosterURL == "" {
		movie.PosterURL = consts.DefaultPosterURL
	}

	if err := s.movieRepo.CreateMovie(ctx, movie); err != nil {
		log.ErrorContext(ctx, "failed to create movie", "title", req.Title, "error", err)
		return 0, UnExpectedError
	}

	if err := s.attachCategories(ctx, movie.ID, req.Categories); err != nil {
		return 0, err
	}

	s.syncToES(ctx, movie.ID)
	return movie.ID, nil
}

func (s *movieServiceImpl) UpdateMovie(ctx context.Context, movieID uint64, req *dto.MovieBaseDTO) error {
	movie, err := s.getMovieOrErr(ctx, movieID)
	if err != nil {
		return err
	}

	movie.Title = req.Title
	movie.Description = req.Description
	movie.Year = req.Year
	if req.PosterURL != "" {
		movie.PosterURL = req.PosterURL
	}
	if err := s.movieRepo.UpdateMovie(ctx, movie); err != nil {
		log.ErrorContext(ctx, "failed to update movie", "movie_id", movieID, "error", err)
		return UnExpectedError
	}

	if err := s.attachCategories(ctx, movieID, req.Categories); err != nil {
		return err
	}

	s.syncToES(ctx, movieID)
	return nil
}

func (s *movieServiceImpl) UpdateMovieStatus(ctx context.Context, movieID uint64, status int8) error {
	if _, err := s.getMovieOrErr(ctx, movieID); err != nil {
		return err
	}
	if err := s.movieRepo.UpdateMovieStatus(ctx, movieID, status); err != nil {
		log.ErrorContext(ctx, "failed to update movie status", "movie_id", movieID, "error", err)
		return UnExpectedError
	}
	s.syncToES(ctx, movieID)
	return nil
}

func (s *movieServiceImpl) DeleteMovie(ctx context.Context, movieID uint64) error {
	if _, err := s.getMovieOrErr(ctx, movieID); err != nil {
		return err
	}
	if err := s.movieRepo.DeleteMovie(ctx, movieID); err != nil {
		log.ErrorContext(ctx, "failed to delete movie", "movie_id", movieID, "error", err)
		return UnExpectedError
	}
	if err := s.esRepo.DeleteMovie(ctx, movieID); err != nil {
		log.WarnContext(ctx, "failed to remove movie from index", "movie_id", movieID, "error", err)
	}
	return nil
}

func (s *movieServiceImpl) GetMovie(ctx context.Context, movieID uint64) (*dto.MovieDTO, error) {
	movie, err := s.getMovieOrErr(ctx, movieID)
	if err != nil {
		return nil, err
	}

	result, err := s.toMovieDTOs(ctx, []*model.Movie{movie})
	if err != nil {
		return nil, err
	}
	detail := result[0]

	videos, err := s.movieRepo.GetVideosByMovie(ctx, movieID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load movie videos", "movie_id", movieID, "error", err)
		return nil, UnExpectedError
	}
	for _, v := range videos {
		videoDTO := &dto.VideoDTO{}
		_ = copier.Copy(videoDTO, v)
		detail.Videos = append(detail.Videos, videoDTO)
	}
	return detail, nil
}

func (s *movieServiceImpl) ListMovies(ctx context.Context, page, pageSize int) ([]*dto.MovieDTO, error) {
	limit, offset := normalizePage(page, pageSize)
	movies, err := s.movieRepo.ListMovies(ctx, limit, offset)
	if err != nil {
		log.ErrorContext(ctx, "failed to list movies", "error", err)
		return nil, UnExpectedError
	}
	return s.toMovieDTOs(ctx, movies)
}

func (s *movieServiceImpl) SearchMovies(ctx context.Context, keyword string, page, pageSize int) ([]*dto.MovieDTO, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrParamInvalid
	}
	limit, offset := normalizePage(page, pageSize)

	hits, err := s.esRepo.SearchMovies(ctx, keyword, offset, limit)
	if err == nil {
		ids := make([]uint64, 0, len(hits))
		for _, h := range hits {
			ids = append(ids, h.ID)
		}
		movies, err := s.movieRepo.GetMovieByIDs(ctx, ids)
		if err != nil {
			log.ErrorContext(ctx, "failed to load search results", "error", err)
			return nil, UnExpectedError
		}
		// 保持 ES 的相关性排序
		byID := make(map[uint64]*model.Movie, len(movies))
		for _, m := range movies {
			byID[m.ID] = m
		}
		ordered := make([]*model.Movie, 0, len(ids))
		for _, id := range ids {
			if m, ok := byID[id]; ok {
				ordered = append(ordered, m)
			}
		}
		return s.toMovieDTOs(ctx, ordered)
	}

	log.WarnContext(ctx, "es search degraded to database", "keyword", keyword, "error", err)
	movies, err := s.movieRepo.SearchByTitle(ctx, keyword, limit, offset)
	if err != nil {
		log.ErrorContext(ctx, "fallback search failed", "keyword", keyword, "error", err)
		return nil, UnExpectedError
	}
	return s.toMovieDTOs(ctx, movies)
}

func (s *movieServiceImpl) UploadPoster(ctx context.Context, movieID uint64, r io.Reader) (string, error) {
	movie, err := s.getMovieOrErr(ctx, movieID)
	if err != nil {
		return "", err
	}

	normalized, err := util.NormalizePoster(io.LimitReader(r, posterMaxBytes))
	if err != nil {
		log.WarnContext(ctx, "poster rejected", "movie_id", movieID, "error", err)
		return "", ErrFileNotSupported
	}

	return s.storePoster(ctx, movie, normalized)
}

func (s *movieServiceImpl) ImportPoster(ctx context.Context, movieID uint64, url string) (string, error) {
	movie, err := s.getMovieOrErr(ctx, movieID)
	if err != nil {
		return "", err
	}

	lockKey := fmt.Sprintf("%s%d", consts.PosterImportLock, movieID)
	lockVal := uuid.NewString()
	locked, err := redis.TryLock(ctx, lockKey, lockVal, posterImportLockTTL, 1)
	if err != nil {
		log.ErrorContext(ctx, "failed to acquire poster import lock", "movie_id", movieID, "error", err)
		return "", UnExpectedError
	}
	if !locked {
		return "", ErrActionDuplicate
	}
	defer redis.UnLock(ctx, lockKey, lockVal)

	resp, err := s.httpClient.R().SetContext(ctx).Get(url)
	if err != nil || resp.StatusCode() != 200 {
		log.WarnContext(ctx, "poster fetch failed", "movie_id", movieID, "url", url, "error", err)
		return "", ErrPosterFetchFailed
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return "", ErrFileNotSupported
	}

	normalized, err := util.NormalizePoster(bytes.NewReader(resp.Body()))
	if err != nil {
		log.WarnContext(ctx, "imported poster rejected", "movie_id", movieID, "url", url, "error", err)
		return "", ErrFileNotSupported
	}

	return s.storePoster(ctx, movie, normalized)
}

// storePoster 原图和缩略图都入桶，影片只记原图地址
func (s *movieServiceImpl) storePoster(ctx context.Context, movie *model.Movie, normalized *bytes.Buffer) (string, error) {
	thumb, err := util.PosterThumbnail(bytes.NewReader(normalized.Bytes()))
	if err != nil {
		return "", ErrFileNotSupported
	}

	objectName := fmt.Sprintf("posters/%d.jpg", movie.ID)
	if _, err := minio.UploadFile(ctx, objectName, bytes.NewReader(normalized.Bytes()), int64(normalized.Len()), "image/jpeg"); err != nil {
		log.ErrorContext(ctx, "failed to upload poster", "movie_id", movie.ID, "error", err)
		return "", UnExpectedError
	}
	thumbName := fmt.Sprintf("posters/%d_thumb.jpg", movie.ID)
	if _, err := minio.UploadFile(ctx, thumbName, bytes.NewReader(thumb.Bytes()), int64(thumb.Len()), "image/jpeg"); err != nil {
		log.WarnContext(ctx, "failed to upload poster thumbnail", "movie_id", movie.ID, "error", err)
	}

	movie.PosterURL = minio.GetPublicURL(objectName)
	if err := s.movieRepo.UpdateMovie(ctx, movie); err != nil {
		log.ErrorContext(ctx, "failed to save poster url", "movie_id", movie.ID, "error", err)
		return "", UnExpectedError
	}

	s.syncToES(ctx, movie.ID)
	return movie.PosterURL, nil
}

func (s *movieServiceImpl) AddVideo(ctx context.Context, movieID uint64, req *dto.VideoBaseDTO) (uint64, error) {
	if _, err := s.getMovieOrErr(ctx, movieID); err != nil {
		return 0, err
	}

	video := &model.MovieVideo{
		MovieID:   movieID,
		Title:     req.Title,
		FileID:    req.FileID,
		Position:  req.Position,
		CreatedAt: time.Now(),
	}
	if err := s.movieRepo.CreateVideo(ctx, video); err != nil {
		log.ErrorContext(ctx, "failed to add movie video", "movie_id", movieID, "error", err)
		return 0, UnExpectedError
	}
	return video.ID, nil
}

func (s *movieServiceImpl) RemoveVideo(ctx context.Context, movieID, videoID uint64) error {
	videos, err := s.movieRepo.GetVideosByMovie(ctx, movieID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load movie videos", "movie_id", movieID, "error", err)
		return UnExpectedError
	}
	for _, v := range videos {
		if v.ID == videoID {
			if err := s.movieRepo.DeleteVideo(ctx, videoID); err != nil {
				log.ErrorContext(ctx, "failed to remove movie video", "video_id", videoID, "error", err)
				return UnExpectedError
			}
			// 删掉最后一个分片后影片不可播放，会从推荐和相似结果里消失
			if playable, perr := s.movieRepo.IsPlayable(ctx, movieID); perr == nil && !playable {
				log.InfoContext(ctx, "movie no longer playable after video removal", "movie_id", movieID)
			}
			return nil
		}
	}
	return ErrVideoNotFound
}

func (s *movieServiceImpl) getMovieOrErr(ctx context.Context, movieID uint64) (*model.Movie, error) {
	if movieID == 0 {
		return nil, ErrParamInvalid
	}
	movie, err := s.movieRepo.GetMovie(ctx, movieID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load movie", "movie_id", movieID, "error", err)
		return nil, UnExpectedError
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return movie, nil
}

// attachCategories 按名字取或建分类后整体替换影片的分类集合
func (s *movieServiceImpl) attachCategories(ctx context.Context, movieID uint64, names []string) error {
	categoryIDs := make([]uint64, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		category, err := s.categoryRepo.GetOrCreateCategory(ctx, name, "")
		if err != nil {
			log.ErrorContext(ctx, "failed to resolve category", "name", name, "error", err)
			return UnExpectedError
		}
		categoryIDs = append(categoryIDs, category.ID)
	}
	if err := s.categoryRepo.ReplaceMovieCategories(ctx, movieID, util.UniqueIDs(categoryIDs)); err != nil {
		log.ErrorContext(ctx, "failed to replace movie categories", "movie_id", movieID, "error", err)
		return UnExpectedError
	}
	return nil
}

// syncToES 尽力同步搜索索引，失败只告警不影响主流程
func (s *movieServiceImpl) syncToES(ctx context.Context, movieID uint64) {
	movie, err := s.movieRepo.GetMovie(ctx, movieID)
	if err != nil || movie == nil {
		log.WarnContext(ctx, "skip es sync, movie unavailable", "movie_id", movieID, "error", err)
		return
	}
	names, err := s.categoryNames(ctx, movieID)
	if err != nil {
		log.WarnContext(ctx, "skip es sync, categories unavailable", "movie_id", movieID, "error", err)
		return
	}

	doc := &es.MovieES{
		ID:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Categories:  names,
		Status:      movie.Status,
		ViewsCount:  movie.ViewsCount,
		LikesCount:  movie.LikesCount,
		CreatedAt:   movie.CreatedAt,
		UpdatedAt:   movie.UpdatedAt,
	}
	if err := s.esRepo.IndexMovie(ctx, doc, movie.UpdatedAt.UnixNano()); err != nil {
		log.WarnContext(ctx, "failed to sync movie index", "movie_id", movieID, "error", err)
	}
}

func (s *movieServiceImpl) categoryNames(ctx context.Context, movieID uint64) ([]string, error) {
	ids, err := s.categoryRepo.GetCategoryIDsByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		category, err := s.categoryRepo.GetCategoryByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if category != nil {
			names = append(names, category.Name)
		}
	}
	return names, nil
}

// toMovieDTOs 批量组装影片 DTO，分类一次性查出避免 N+1
func (s *movieServiceImpl) toMovieDTOs(ctx context.Context, movies []*model.Movie) ([]*dto.MovieDTO, error) {
	result := make([]*dto.MovieDTO, 0, len(movies))
	if len(movies) == 0 {
		return result, nil
	}

	ids := make([]uint64, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	categoriesByMovie, err := s.categoryRepo.GetCategoryIDsByMovies(ctx, ids)
	if err != nil {
		log.ErrorContext(ctx, "failed to load movie categories", "error", err)
		return nil, UnExpectedError
	}
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to load categories", "error", err)
		return nil, UnExpectedError
	}
	categoryByID := make(map[uint64]*model.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	for _, m := range movies {
		item := &dto.MovieDTO{}
		_ = copier.Copy(item, m)
		item.CreatedAt = m.CreatedAt.Format(time.RFC3339)
		item.Categories = make([]*dto.CategoryDTO, 0, len(categoriesByMovie[m.ID]))
		for _, cid := range categoriesByMovie[m.ID] {
			if c, ok := categoryByID[cid]; ok {
				categoryDTO := &dto.CategoryDTO{ID: c.ID, Name: c.Name}
				if c.Description != nil {
					categoryDTO.Description = *c.Description
				}
				item.Categories = append(item.Categories, categoryDTO)
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func normalizePage(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}
