package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserExist               = errors.New("用户已存在")
	ErrUserBan                 = errors.New("用户已被封禁")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrMovieNotFound           = errors.New("影片不存在")
	ErrCategoryNotFound        = errors.New("分类不存在")
	ErrVideoNotFound           = errors.New("视频不存在")
	ErrActionDuplicate         = errors.New("重复操作")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrPosterFetchFailed       = errors.New("海报拉取失败")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserExist:               BadRequest,
	ErrUserBan:                 Unauthorized,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrMovieNotFound:           NotFound,
	ErrCategoryNotFound:        NotFound,
	ErrVideoNotFound:           NotFound,
	ErrActionDuplicate:         BadRequest,
	ErrFileNotSupported:        BadRequest,
	ErrPosterFetchFailed:       BadRequest,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
