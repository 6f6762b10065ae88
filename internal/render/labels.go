package render

import (
	"strconv"
	"strings"

	"lpr-console/internal/domain/lpr"
	"lpr-console/internal/i18n"
)

var (
	plateColors  = set("blue", "yellow", "white", "red")
	plateTypes   = set("private", "commercial", "taxi", "government", "temporary")
	vehicleTypes = set("car", "pickup", "truck", "vehicle")
)

// governorateAliases maps lowercased spellings seen from the backend to governorate codes.
var governorateAliases = map[string]string{
	"amanat al asimah": "1", "capital secretariat": "1", "sanaa city": "1", "أمانة العاصمة": "1",
	"sanaa": "2", "sana'a": "2", "محافظة صنعاء": "2", "صنعاء": "2",
	"taiz": "3", "تعز": "3",
	"aden": "4", "عدن": "4",
	"al hudaydah": "5", "hodeidah": "5", "hudaydah": "5", "الحديدة": "5",
	"ibb": "6", "إب": "6",
	"dhamar": "7", "ذمار": "7",
	"hadramaut": "8", "hadramawt": "8", "حضرموت": "8",
	"lahij": "9", "lahej": "9", "لحج": "9",
	"abyan": "10", "أبين": "10",
	"shabwah": "11", "shabwa": "11", "شبوة": "11",
	"al mahrah": "12", "mahra": "12", "المهرة": "12",
	"al jawf": "13", "jawf": "13", "الجوف": "13",
	"marib": "14", "ma'rib": "14", "مأرب": "14",
	"raymah": "15", "raima": "15", "ريمة": "15",
	"al mahwit": "16", "mahwit": "16", "المحويت": "16",
	"hajjah": "17", "حجة": "17",
	"saada": "18", "sa'dah": "18", "صعدة": "18",
	"al bayda": "19", "bayda": "19", "البيضاء": "19",
	"socotra": "20", "سقطرى": "20",
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// displayText returns the trimmed text of key unless it is absent, empty or "unknown".
func displayText(rec lpr.Record, key string) (string, bool) {
	s, ok := rec.Text(key)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") {
		return "", false
	}
	return s, true
}

type labeler struct {
	cat *i18n.Catalog
}

func (l labeler) notAvailable() string {
	return l.cat.T(i18n.NotAvailable)
}

func (l labeler) enum(group string, allowed map[string]bool, value string, ok bool) string {
	if !ok {
		return l.notAvailable()
	}
	v := strings.ToLower(strings.TrimSpace(value))
	if !allowed[v] {
		return l.notAvailable()
	}
	if label, found := l.cat.Label(group, v); found {
		return label
	}
	return l.notAvailable()
}

func (l labeler) plateColor(rec lpr.Record) string {
	v, ok := displayText(rec, "plate_color")
	return l.enum("color", plateColors, v, ok)
}

func (l labeler) plateType(rec lpr.Record) string {
	v, ok := displayText(rec, "plate_type")
	return l.enum("plate_type", plateTypes, v, ok)
}

func (l labeler) vehicleType(rec lpr.Record) string {
	v, ok := displayText(rec, "vehicle_type")
	if !ok {
		v, ok = displayText(rec, "plate_type")
	}
	return l.enum("vehicle", vehicleTypes, v, ok)
}

func (l labeler) governorate(rec lpr.Record) string {
	for _, key := range []string{"governorate_name", "governorate", "governorate_code"} {
		v, ok := displayText(rec, key)
		if !ok {
			continue
		}
		if code, found := governorateCode(v); found {
			if label, found := l.cat.Label("governorate", code); found {
				return label
			}
		}
	}
	return l.notAvailable()
}

func (l labeler) governorateCode(rec lpr.Record) string {
	if v, ok := displayText(rec, "governorate_code"); ok {
		if code, found := governorateCode(v); found {
			return code
		}
	}
	return l.notAvailable()
}

func governorateCode(value string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1 && n <= 20 {
			return strconv.Itoa(n), true
		}
		return "", false
	}
	code, ok := governorateAliases[v]
	return code, ok
}
