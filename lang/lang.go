// Package lang holds the user-facing bot texts.
package lang

import "fmt"

const (
	Ko = "ko"
	En = "en"
)

// Default is used when a user has not picked a language.
const Default = Ko

var texts = map[string]map[string]string{
	Ko: {
		"welcome":          "안녕하세요! 오늘 뭐 먹을지 같이 골라볼까요? 🍚",
		"choose_lang":      "언어를 선택하세요 / Choose a language",
		"lang_set":         "한국어로 설정했어요.",
		"choose_situation": "누구와 드시나요?",
		"choose_weather":   "오늘 날씨는 어때요?",
		"sit_alone":        "혼밥",
		"sit_date":         "데이트",
		"sit_family":       "가족",
		"sit_group":        "회식/모임",
		"sit_none":         "상관없음",
		"wx_hot":           "더움",
		"wx_cold":          "추움",
		"wx_rainy":         "비",
		"wx_snowy":         "눈",
		"wx_spring":        "봄",
		"wx_autumn":        "가을",
		"wx_none":          "상관없음",
		"results_header":   "추천 메뉴 (%s · %s)",
		"random_header":    "랜덤 메뉴 %d개",
		"search_header":    "'%s' 검색 결과",
		"no_results":       "조건에 맞는 메뉴가 없어요. 조건을 바꿔 보세요.",
		"search_usage":     "사용법: /search 메뉴이름",
		"bad_args":         "잘못된 입력이에요: %s",
		"rate_limited":     "너무 빨라요! %d초 후에 다시 시도해 주세요.",
		"error":            "잠시 문제가 생겼어요. 다시 시도해 주세요.",
		"again":            "다시 고르기",
		"spicy":            "맵기 %d/5",
		"liquid":           "국물/소스",
		"diet":             "다이어트",
		"help": "/start - 상황과 날씨로 추천받기\n" +
			"/recommend situation=date weather=rainy maxSpicy=2 diet=true noLiquid=true price=UNDER_20K category=KOREAN,JAPANESE\n" +
			"/random [개수] - 랜덤 메뉴\n" +
			"/search 이름 - 메뉴 검색\n" +
			"/language - 언어 변경",
	},
	En: {
		"welcome":          "Hi! Let's pick something to eat today. 🍚",
		"choose_lang":      "언어를 선택하세요 / Choose a language",
		"lang_set":         "Language set to English.",
		"choose_situation": "Who are you eating with?",
		"choose_weather":   "How's the weather?",
		"sit_alone":        "Alone",
		"sit_date":         "Date",
		"sit_family":       "Family",
		"sit_group":        "Group",
		"sit_none":         "Any",
		"wx_hot":           "Hot",
		"wx_cold":          "Cold",
		"wx_rainy":         "Rainy",
		"wx_snowy":         "Snowy",
		"wx_spring":        "Spring",
		"wx_autumn":        "Autumn",
		"wx_none":          "Any",
		"results_header":   "Recommended (%s · %s)",
		"random_header":    "%d random menus",
		"search_header":    "Results for '%s'",
		"no_results":       "Nothing matches. Try other options.",
		"search_usage":     "Usage: /search <name>",
		"bad_args":         "Invalid input: %s",
		"rate_limited":     "Slow down! Try again in %d seconds.",
		"error":            "Something went wrong. Please try again.",
		"again":            "Pick again",
		"spicy":            "spicy %d/5",
		"liquid":           "soup/sauce",
		"diet":             "diet",
		"help": "/start - recommend by situation and weather\n" +
			"/recommend situation=date weather=rainy maxSpicy=2 diet=true noLiquid=true price=UNDER_20K category=KOREAN,JAPANESE\n" +
			"/random [count] - random menus\n" +
			"/search <name> - search menus\n" +
			"/language - change language",
	},
}

// Supported reports whether l has a text table.
func Supported(l string) bool {
	_, ok := texts[l]
	return ok
}

// T returns the text for key in l, formatted with args. Unknown languages
// fall back to Default and unknown keys return the key itself.
func T(l, key string, args ...interface{}) string {
	table, ok := texts[l]
	if !ok {
		table = texts[Default]
	}
	s, ok := table[key]
	if !ok {
		s, ok = texts[Default][key]
		if !ok {
			return key
		}
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}
