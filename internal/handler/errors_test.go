package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.rummy/internal/game"
	"sudooom.rummy/internal/game/rummy/core"
	"sudooom.rummy/pkg/response"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, response.CodeSuccess},
		{"game not found", game.ErrGameNotFound, response.CodeGameNotFound},
		{"too many games", fmt.Errorf("create: %w", game.ErrTooManyGames), response.CodeTooManyGames},
		{"unknown action", fmt.Errorf("%w: %q", ErrUnknownAction, "shuffle"), response.CodeInvalidParams},
		{"not your turn", core.ErrNotYourTurn, response.CodeNotYourTurn},
		{"computer seat", core.ErrComputerControlled.Detailf("player %d", 1), response.CodeComputerControlled},
		{"wrapped detail", fmt.Errorf("动作验证失败: %w", core.ErrMeldBelowThreshold.Detailf("value %d", 5)), response.CodeMeldBelowThreshold},
		{"pool exhausted", core.ErrPoolExhausted, response.CodePoolExhausted},
		{"integrity is internal", core.ErrIntegrity, response.CodeServerError},
		{"unknown", errors.New("boom"), response.CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codeOf(tt.err))
		})
	}
}

func TestGameError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"engine detail", core.ErrTileNotFound.Detailf("tile 9 not in hand(0)"), response.CodeTileNotFound, "tile not found in source: tile 9 not in hand(0)"},
		{"registry", game.ErrGameNotFound, response.CodeGameNotFound, "牌桌不存在"},
		{"internal", errors.New("boom"), response.CodeServerError, "服务器内部错误"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			gameError(c, tt.err)

			var resp response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.message, resp.Message)
			assert.Nil(t, resp.Data)
		})
	}
}
