package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The marketplace publishes prices and dates in Bangla script. These tables
// map them back to values the rest of the pipeline can parse.
var banglaDigits = strings.NewReplacer(
	"০", "0", "১", "1", "২", "2", "৩", "3", "৪", "4",
	"৫", "5", "৬", "6", "৭", "7", "৮", "8", "৯", "9",
)

var banglaMonths = []struct {
	bn string
	en string
}{
	{"জানু", "Jan"},
	{"ফেব", "Feb"},
	{"মার্চ", "Mar"},
	{"এপ্রি", "Apr"},
	{"মে", "May"},
	{"জুন", "Jun"},
	{"জুলা", "Jul"},
	{"আগ", "Aug"},
	{"সেপ্ট", "Sep"},
	{"অক্টো", "Oct"},
	{"নভে", "Nov"},
	{"ডিসে", "Dec"},
}

var (
	publishedPattern = regexp.MustCompile(`পোস্ট করা হয়েছে\s*(.*?)\s*,`)
	priceStripper    = regexp.MustCompile(`[৳,\s]`)
	numericPattern   = regexp.MustCompile(`[0-9]+`)
)

// normalizeDigits converts Bangla numerals in s to their ASCII equivalents.
func normalizeDigits(s string) string {
	return banglaDigits.Replace(s)
}

// parsePrice extracts an integer taka amount from a price string like
// "৳ ২০,০০০" or "Tk 20,000".
func parsePrice(s string) (int, bool) {
	cleaned := priceStripper.ReplaceAllString(s, "")
	cleaned = normalizeDigits(cleaned)
	match := numericPattern.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	price, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return price, true
}

// parsePublishedDate extracts the publish timestamp from the listing page
// header text, e.g. "পোস্ট করা হয়েছে ২৯ আগ ১০:৩০ এএম, ঢাকা". The page
// omits the year, so the current year is assumed; a result in the future
// rolls back one year.
func parsePublishedDate(text string, now time.Time) (time.Time, bool) {
	match := publishedPattern.FindStringSubmatch(text)
	if match == nil {
		return time.Time{}, false
	}

	raw := normalizeDigits(strings.TrimSpace(match[1]))
	for _, m := range banglaMonths {
		raw = strings.ReplaceAll(raw, m.bn, m.en)
	}
	raw = strings.ReplaceAll(raw, "এএম", "AM")
	raw = strings.ReplaceAll(raw, "পিএম", "PM")
	raw = strings.Join(strings.Fields(raw), " ")

	parsed, err := time.Parse("2 Jan 3:04 PM 2006", raw+" "+strconv.Itoa(now.Year()))
	if err != nil {
		return time.Time{}, false
	}
	if parsed.After(now.AddDate(0, 0, 1)) {
		parsed = parsed.AddDate(-1, 0, 0)
	}
	return parsed, true
}

// specPattern pulls the leading number out of a spec string like "8 GB" or
// "৫০০০ mAh".
var specPattern = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)

// normalizeSpec reduces a marketplace spec string to its numeric part,
// returning "N/A" when there is none.
func normalizeSpec(s string) string {
	match := specPattern.FindString(normalizeDigits(s))
	if match == "" {
		return "N/A"
	}
	return match
}

var (
	ramPattern     = regexp.MustCompile(`(?i)\b([0-9]{1,2})\s*GB\s*RAM\b`)
	memoryPattern  = regexp.MustCompile(`(?i)\b([0-9]{1,2})\s*/\s*([0-9]{2,4})\s*GB\b`)
	storagePattern = regexp.MustCompile(`(?i)\b([0-9]{2,4})\s*GB(?:\s*(?:ROM|Storage))?\b`)
	batteryPattern = regexp.MustCompile(`(?i)\b([0-9]{3,5})\s*mAh\b`)
	cameraPattern  = regexp.MustCompile(`(?i)\b([0-9]{1,3})\s*MP\b`)
)

// parseMemory extracts RAM and storage (in GB) from a feature/description
// blob. Handles both the "8/128 GB" shorthand and labeled forms.
func parseMemory(text string) (ram, storage string) {
	ram, storage = "N/A", "N/A"
	text = normalizeDigits(text)

	if m := memoryPattern.FindStringSubmatch(text); m != nil {
		return m[1], m[2]
	}
	if m := ramPattern.FindStringSubmatch(text); m != nil {
		ram = m[1]
	}
	if m := storagePattern.FindStringSubmatch(text); m != nil && m[1] != ram {
		storage = m[1]
	}
	return ram, storage
}

// parseBattery extracts the battery capacity in mAh.
func parseBattery(text string) string {
	if m := batteryPattern.FindStringSubmatch(normalizeDigits(text)); m != nil {
		return m[1]
	}
	return "N/A"
}

// parseCamera extracts the main camera resolution in megapixels.
func parseCamera(text string) string {
	if m := cameraPattern.FindStringSubmatch(normalizeDigits(text)); m != nil {
		return m[1]
	}
	return "N/A"
}

// hasWarranty reports whether the listing text mentions a warranty, in
// either language.
func hasWarranty(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "warranty") || strings.Contains(text, "ওয়ারেন্টি")
}

// normalizeCondition maps marketplace condition labels to their English
// equivalents.
func normalizeCondition(s string) string {
	switch strings.TrimSpace(s) {
	case "নতুন", "New":
		return "New"
	case "ব্যবহৃত", "Used":
		return "Used"
	case "":
		return "N/A"
	default:
		return strings.TrimSpace(s)
	}
}

// normalizeNetwork maps a feature blob to the best network generation it
// mentions.
func normalizeNetwork(s string) string {
	upper := strings.ToUpper(normalizeDigits(s))
	switch {
	case strings.Contains(upper, "5G"):
		return "5G"
	case strings.Contains(upper, "4G"), strings.Contains(upper, "LTE"):
		return "4G"
	case strings.Contains(upper, "3G"):
		return "3G"
	default:
		return "N/A"
	}
}
