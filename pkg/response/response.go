package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 错误码常量
const (
	CodeSuccess = 0

	// 参数相关 11000-11999
	CodeInvalidParams = 11002

	// 牌桌相关 20000-20999
	CodeGameNotFound       = 20001
	CodeTooManyGames       = 20002
	CodeRoundNotStarted    = 20003
	CodeRoundOver          = 20004
	CodeNotYourTurn        = 20005
	CodeTileNotFound       = 20006
	CodePoolExhausted      = 20007
	CodeMeldBelowThreshold = 20008
	CodeGroupNotFound      = 20009
	CodeComputerControlled = 20010
	CodeInvalidMove        = 20011
	CodeInvalidSetup       = 20012
	CodeUnknownPlayer      = 20013

	// 系统错误 50000-50999
	CodeServerError = 50001
)

var codeMessages = map[int]string{
	CodeSuccess:            "success",
	CodeInvalidParams:      "参数校验失败",
	CodeGameNotFound:       "牌桌不存在",
	CodeTooManyGames:       "牌桌数量已达上限",
	CodeRoundNotStarted:    "尚未开局",
	CodeRoundOver:          "本局已结束",
	CodeNotYourTurn:        "还没轮到你",
	CodeTileNotFound:       "牌不在来源位置",
	CodePoolExhausted:      "摸牌堆已空",
	CodeMeldBelowThreshold: "首次出牌点数不足",
	CodeGroupNotFound:      "牌组不存在",
	CodeComputerControlled: "该玩家由电脑控制",
	CodeInvalidMove:        "无效的动作",
	CodeInvalidSetup:       "无效的开局设置",
	CodeUnknownPlayer:      "玩家不存在",
	CodeServerError:        "服务器内部错误",
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int) {
	message := codeMessages[code]
	if message == "" {
		message = "unknown error"
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// ErrorWithMsg 自定义错误消息
func ErrorWithMsg(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}
