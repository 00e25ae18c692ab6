package services

import (
	"math"
	"regexp"
	"strconv"
)

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*(?:horas?|hrs?|h)\b`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:minutos?|mins?|m)\b`)
	secondsPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:segundos?|segs?|s)\b`)
)

// ParseDurationText reads the console's elapsed-time text, either
// "1 Horas 5 Minutos 30 segundos" or the short "1h 5min", as minutes rounded
// to two decimals. ok is false when no unit is found.
func ParseDurationText(text string) (minutes float64, ok bool) {
	h, hok := firstInt(hoursPattern, text)
	m, mok := firstInt(minutesPattern, text)
	s, sok := firstInt(secondsPattern, text)
	if !hok && !mok && !sok {
		return 0, false
	}
	total := float64(h*60+m) + float64(s)/60
	return math.Round(total*100) / 100, true
}

func firstInt(re *regexp.Regexp, text string) (int, bool) {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
