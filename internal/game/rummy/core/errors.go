package core

import "fmt"

// GameError 游戏错误类型，按 Code 判等
type GameError struct {
	Code    string // 错误代码
	Message string // 错误消息
	Cause   error  // 原因错误
}

func (e *GameError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GameError) Unwrap() error {
	return e.Cause
}

// Is 支持 errors.Is，相同 Code 即视为同一错误
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewGameError 创建游戏错误
func NewGameError(code, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WithCause 返回带原因的副本，不修改预定义错误
func (e *GameError) WithCause(cause error) *GameError {
	return &GameError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
	}
}

// Detailf 返回附加了细节描述的副本
func (e *GameError) Detailf(format string, args ...any) *GameError {
	return &GameError{
		Code:    e.Code,
		Message: e.Message + ": " + fmt.Sprintf(format, args...),
		Cause:   e.Cause,
	}
}

// 错误代码
const (
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeTileNotFound       = "TILE_NOT_FOUND"
	CodePoolExhausted      = "POOL_EXHAUSTED"
	CodeMeldBelowThreshold = "MELD_BELOW_THRESHOLD"
	CodeRoundOver          = "ROUND_OVER"
	CodeRoundNotStarted    = "ROUND_NOT_STARTED"
	CodeGroupNotFound      = "GROUP_NOT_FOUND"
	CodeComputerControlled = "COMPUTER_CONTROLLED"
	CodeInvalidMove        = "INVALID_MOVE"
	CodeInvalidSetup       = "INVALID_SETUP"
	CodeUnknownPlayer      = "UNKNOWN_PLAYER"
	CodeIntegrity          = "INTEGRITY_VIOLATION"
)

// 动作被拒绝，状态保持不变
var (
	ErrNotYourTurn        = NewGameError(CodeNotYourTurn, "not your turn")
	ErrTileNotFound       = NewGameError(CodeTileNotFound, "tile not found in source")
	ErrPoolExhausted      = NewGameError(CodePoolExhausted, "draw pile is empty")
	ErrMeldBelowThreshold = NewGameError(CodeMeldBelowThreshold, "initial meld below threshold")
	ErrGroupNotFound      = NewGameError(CodeGroupNotFound, "table group not found")
	ErrComputerControlled = NewGameError(CodeComputerControlled, "player is computer controlled")
	ErrInvalidMove        = NewGameError(CodeInvalidMove, "invalid move")
	ErrUnknownPlayer      = NewGameError(CodeUnknownPlayer, "unknown player")
)

// 局状态相关
var (
	ErrRoundOver       = NewGameError(CodeRoundOver, "round is over")
	ErrRoundNotStarted = NewGameError(CodeRoundNotStarted, "round not started")
	ErrInvalidSetup    = NewGameError(CodeInvalidSetup, "invalid round setup")
	ErrIntegrity       = NewGameError(CodeIntegrity, "tile integrity violated")
)
