package label

import "strings"

// MessageSeparator 留言正文与署名之间的分隔行
const MessageSeparator = "\n---\n"

// SplitMessage 将订单留言拆分为正文与署名
// 没有分隔行时整段作为正文，署名回退为下单人姓名
func SplitMessage(raw, ordererName string) (message, sender string) {
	parts := strings.Split(raw, MessageSeparator)
	if len(parts) > 1 {
		return parts[0], parts[1]
	}
	return raw, ordererName
}

// JoinMessage SplitMessage 的逆操作，用于回写订单留言
func JoinMessage(message, sender string) string {
	if strings.TrimSpace(sender) == "" {
		return message
	}
	return message + MessageSeparator + sender
}
