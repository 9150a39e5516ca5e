package es

import (
	"Cinebase/internal/pkg/consts"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type MovieRepo interface {
	SearchMovies(ctx context.Context, keyword string, from, size int) ([]*MovieES, error)
	GetMovieById(ctx context.Context, id uint64) (*MovieES, error)
	IndexMovie(ctx context.Context, movie *MovieES, version int64) error
	DeleteMovie(ctx context.Context, id uint64) error
}

type MovieRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewMovieRepo(client *elasticsearch.TypedClient) MovieRepo {
	return &MovieRepoImpl{client: client}
}

// SearchMovies 标题/简介/分类的全文检索，只召回上架影片
func (s *MovieRepoImpl) SearchMovies(ctx context.Context, keyword string, from, size int) ([]*MovieES, error) {
	if from >= MaxSearchDepth {
		return []*MovieES{}, nil
	}

	query := &types.Query{
		Bool: &types.BoolQuery{
			Must: []types.Query{{
				MultiMatch: &types.MultiMatchQuery{
					Query:  keyword,
					Fields: []string{"title^3", "description", "categories^2"},
				},
			}},
			Filter: []types.Query{{
				Term: map[string]types.TermQuery{
					"status": {Value: consts.MovieStatusNormal},
				},
			}},
		},
	}

	result, err := s.client.Search().
		Index(MovieIndex).
		Query(query).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{"_score": {Order: &sortorder.Desc}}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{"views_count": {Order: &sortorder.Desc}}},
		).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	movies := make([]*MovieES, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var movie MovieES
		if err := json.Unmarshal(hit.Source_, &movie); err != nil {
			return nil, err
		}
		movies = append(movies, &movie)
	}
	return movies, nil
}

func (s *MovieRepoImpl) GetMovieById(ctx context.Context, id uint64) (*MovieES, error) {
	docID := strconv.FormatUint(id, 10)
	result, err := s.client.Get(MovieIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil, nil
			}
		}
		return nil, err
	}
	if result.Source_ == nil {
		return nil, nil
	}
	var movie MovieES
	if err = json.Unmarshal(result.Source_, &movie); err != nil {
		return nil, err
	}
	if movie.Categories == nil {
		movie.Categories = make([]string, 0)
	}
	return &movie, nil
}

// IndexMovie 外部版本号写入，落后的版本冲突直接忽略
func (s *MovieRepoImpl) IndexMovie(ctx context.Context, movie *MovieES, version int64) error {
	docID := strconv.FormatUint(movie.ID, 10)

	_, err := s.client.Index(MovieIndex).
		Id(docID).
		Document(movie).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *MovieRepoImpl) DeleteMovie(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(MovieIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}
