package bot

import (
	"fmt"
	"strconv"
	"strings"

	"food-pick/lang"
	"food-pick/models"
	"food-pick/services"
)

// parseRecommendArgs reads "/recommend" arguments. Tokens are key=value
// pairs; a bare token is taken as a situation or, failing that, a weather.
//
//	/recommend situation=date weather=rainy maxSpicy=2 diet=true noLiquid=true price=UNDER_20K category=KOREAN,JAPANESE
//	/recommend 데이트 비
func parseRecommendArgs(args string) (services.RawCriteria, error) {
	var raw services.RawCriteria
	for _, tok := range strings.Fields(args) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			switch {
			case models.ParseSituation(tok) != models.SituationUnknown:
				raw.Situation = tok
			case models.ParseWeather(tok) != models.WeatherUnknown:
				raw.Weather = tok
			default:
				return raw, fmt.Errorf("unknown option %q", tok)
			}
			continue
		}

		switch strings.ToLower(key) {
		case "situation", "sit":
			raw.Situation = value
		case "weather", "wx":
			raw.Weather = value
		case "maxspicy", "spicy":
			n, err := strconv.Atoi(value)
			if err != nil {
				return raw, fmt.Errorf("%s must be a number", key)
			}
			raw.MaxSpicy = &n
		case "diet", "dietfriendly":
			v, err := strconv.ParseBool(value)
			if err != nil {
				return raw, fmt.Errorf("%s must be true or false", key)
			}
			raw.DietFriendly = &v
		case "noliquid", "avoidliquid":
			v, err := strconv.ParseBool(value)
			if err != nil {
				return raw, fmt.Errorf("%s must be true or false", key)
			}
			raw.AvoidLiquid = &v
		case "price", "pricerange":
			raw.PriceRange = value
		case "category", "categories":
			raw.Categories = append(raw.Categories, strings.Split(value, ",")...)
		default:
			return raw, fmt.Errorf("unknown option %q", key)
		}
	}
	return raw, nil
}

// parseCount reads the optional "/random" count. Blank means the default.
func parseCount(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("count must be a number")
	}
	return n, nil
}

// splitCommand turns "/search@FoodPickBot kimchi" into ("/search", "kimchi").
func splitCommand(text string) (cmd, args string) {
	cmd, args, _ = strings.Cut(strings.TrimSpace(text), " ")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

func situationLabel(l string, s models.Situation) string {
	if s == models.SituationUnknown {
		s = models.SituationNone
	}
	return lang.T(l, "sit_"+s.String())
}

func weatherLabel(l string, w models.Weather) string {
	if w == models.WeatherUnknown {
		w = models.WeatherNone
	}
	return lang.T(l, "wx_"+w.String())
}

// formatMenu renders one menu as a short card.
func formatMenu(l string, m models.MenuItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍽 %s (%s)\n", m.Name, m.Category.DisplayName())

	tags := []string{lang.T(l, "spicy", m.SpicyLevel), m.PriceRange.DisplayName()}
	if m.HasLiquidOrSauce {
		tags = append(tags, lang.T(l, "liquid"))
	}
	if m.DietFriendly {
		tags = append(tags, lang.T(l, "diet"))
	}
	sb.WriteString(strings.Join(tags, " · "))

	if m.Description != nil && *m.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(*m.Description)
	}
	return sb.String()
}

// formatList renders header followed by numbered cards, or the no-results
// text when items is empty.
func formatList(l, header string, items []models.MenuItem) string {
	if len(items) == 0 {
		return lang.T(l, "no_results")
	}
	var sb strings.Builder
	sb.WriteString(header)
	for i, m := range items {
		fmt.Fprintf(&sb, "\n\n%d. %s", i+1, formatMenu(l, m))
	}
	return sb.String()
}
