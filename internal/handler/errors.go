package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sudooom.rummy/internal/game"
	"sudooom.rummy/internal/game/rummy/core"
	"sudooom.rummy/pkg/response"
)

// gameErrorCodes 引擎错误代码到响应码的映射
var gameErrorCodes = map[string]int{
	core.CodeRoundNotStarted:    response.CodeRoundNotStarted,
	core.CodeRoundOver:          response.CodeRoundOver,
	core.CodeNotYourTurn:        response.CodeNotYourTurn,
	core.CodeTileNotFound:       response.CodeTileNotFound,
	core.CodePoolExhausted:      response.CodePoolExhausted,
	core.CodeMeldBelowThreshold: response.CodeMeldBelowThreshold,
	core.CodeGroupNotFound:      response.CodeGroupNotFound,
	core.CodeComputerControlled: response.CodeComputerControlled,
	core.CodeInvalidMove:        response.CodeInvalidMove,
	core.CodeInvalidSetup:       response.CodeInvalidSetup,
	core.CodeUnknownPlayer:      response.CodeUnknownPlayer,
}

// codeOf 把错误映射为响应码，无法识别的错误视为服务器错误
func codeOf(err error) int {
	switch {
	case err == nil:
		return response.CodeSuccess
	case errors.Is(err, game.ErrGameNotFound):
		return response.CodeGameNotFound
	case errors.Is(err, game.ErrTooManyGames):
		return response.CodeTooManyGames
	case errors.Is(err, ErrUnknownAction):
		return response.CodeInvalidParams
	}

	var gameErr *core.GameError
	if errors.As(err, &gameErr) {
		if code, ok := gameErrorCodes[gameErr.Code]; ok {
			return code
		}
	}
	return response.CodeServerError
}

// gameError 从牌桌错误生成错误响应，引擎给出的细节作为消息
func gameError(c *gin.Context, err error) {
	code := codeOf(err)
	if code == response.CodeServerError {
		response.Error(c, code)
		return
	}

	var gameErr *core.GameError
	if errors.As(err, &gameErr) {
		response.ErrorWithMsg(c, code, gameErr.Message)
		return
	}
	response.Error(c, code)
}
