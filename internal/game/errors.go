package game

import "errors"

// 牌桌管理相关错误定义

var (
	// ErrGameNotFound 牌桌不存在或已被淘汰
	ErrGameNotFound = errors.New("game not found")

	// ErrTooManyGames 牌桌数量达到上限
	ErrTooManyGames = errors.New("too many games")

	// ErrManagerClosed 管理器已关闭
	ErrManagerClosed = errors.New("game manager closed")
)
