package nats

import "strings"

// NATS 主题定义
const (
	// SubjectCreate 新建牌桌命令 (请求-应答)，由队列组中任一实例处理
	SubjectCreate = "rummy.cmd.create"

	// SubjectGameCommands 牌桌命令 (请求-应答)，所有实例都订阅，只有持有牌桌的实例应答
	SubjectGameCommands = subjectGameCommandPrefix + "*"

	// QueueGroupRummy 多个实例共同消费新建命令
	QueueGroupRummy = "rummy-engine"

	subjectGameCommandPrefix = "rummy.cmd.game."
	subjectGamePrefix        = "rummy.game."
)

// BuildGameCommandSubject 牌桌命令主题: rummy.cmd.game.<gameId>
func BuildGameCommandSubject(gameID string) string {
	return subjectGameCommandPrefix + gameID
}

// ParseGameCommandSubject 从牌桌命令主题中取出牌桌ID
func ParseGameCommandSubject(subject string) (string, bool) {
	gameID, ok := strings.CutPrefix(subject, subjectGameCommandPrefix)
	if !ok || gameID == "" {
		return "", false
	}
	return gameID, true
}

// BuildGameStateSubject 牌桌状态主题: rummy.game.<gameId>.state
func BuildGameStateSubject(gameID string) string {
	return subjectGamePrefix + gameID + ".state"
}

// BuildGameEventSubject 牌桌事件主题: rummy.game.<gameId>.event
func BuildGameEventSubject(gameID string) string {
	return subjectGamePrefix + gameID + ".event"
}
