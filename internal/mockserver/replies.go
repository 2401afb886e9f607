package mockserver

import "strings"

// Emotion labels reported on user messages.
const (
	EmotionPositive = "POSITIVE"
	EmotionNegative = "NEGATIVE"
	EmotionNeutral  = "NEUTRAL"
)

var (
	negativeCues = []string{"외로", "아파", "슬프", "힘들", "우울"}
	positiveCues = []string{"좋", "기쁘", "행복", "다녀왔"}
)

// ClassifyEmotion labels a message by cue words, checking negative cues first.
func ClassifyEmotion(message string) string {
	for _, cue := range negativeCues {
		if strings.Contains(message, cue) {
			return EmotionNegative
		}
	}
	for _, cue := range positiveCues {
		if strings.Contains(message, cue) {
			return EmotionPositive
		}
	}
	return EmotionNeutral
}

// CannedReply is the default Responder. It varies by cue words and refers
// back to earlier messages when the session has any.
func CannedReply(history []string, message string) string {
	switch {
	case strings.Contains(message, "아파"):
		return "많이 불편하시겠네요. 무리하지 마시고 편히 쉬세요. 오늘 기분은 어떠세요?"
	case strings.Contains(message, "외로"):
		return "그런 마음이 드실 수 있어요. 제가 함께 이야기 나눌게요. 괜찮으시면 오늘 있었던 일을 들려주세요."
	case len(history) > 0:
		return "전에 말씀하신 이야기 기억나요. " + echoFragment(history[len(history)-1]) + " 또 들려주셔서 정말 반가워요! 오늘은 어떠셨어요?"
	default:
		return "정말 좋네요! 오늘은 무엇을 하실 계획이세요?"
	}
}

func echoFragment(message string) string {
	message = strings.TrimSpace(message)
	runes := []rune(message)
	if len(runes) > 20 {
		return "\"" + string(runes[:20]) + "...\""
	}
	return "\"" + message + "\""
}
