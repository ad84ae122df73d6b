package archive

const DestinationOther = "other"

type Destination struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Group string `json:"group"`
}

const (
	groupKaltim = "Dalam Provinsi Kalimantan Timur"
	groupLuar   = "Luar Provinsi"
	groupOther  = "Lainnya"
)

// Destinations is the fixed list offered for SPD travel orders.
var Destinations = []Destination{
	{"balikpapan", "Balikpapan", groupKaltim},
	{"samarinda", "Samarinda", groupKaltim},
	{"bontang", "Bontang", groupKaltim},
	{"kutai_kartanegara", "Kutai Kartanegara", groupKaltim},
	{"paser", "Paser", groupKaltim},
	{"berau", "Berau", groupKaltim},
	{"kutai_barat", "Kutai Barat", groupKaltim},
	{"kutai_timur", "Kutai Timur", groupKaltim},
	{"penajam_paser_utara", "Penajam Paser Utara", groupKaltim},
	{"mahakam_ulu", "Mahakam Ulu", groupKaltim},
	{"jakarta", "Jakarta", groupLuar},
	{"surabaya", "Surabaya", groupLuar},
	{"makassar", "Makassar", groupLuar},
	{"banjarmasin", "Banjarmasin", groupLuar},
	{"yogyakarta", "Yogyakarta", groupLuar},
	{"bandung", "Bandung", groupLuar},
	{"semarang", "Semarang", groupLuar},
	{"denpasar", "Denpasar", groupLuar},
	{DestinationOther, "Lainnya", groupOther},
}

var destinationIndex = func() map[string]Destination {
	m := make(map[string]Destination, len(Destinations))
	for _, d := range Destinations {
		m[d.Code] = d
	}
	return m
}()

func ValidDestination(code string) bool {
	_, ok := destinationIndex[code]
	return ok
}

// DestinationLabel resolves a destination code for display. For "other"
// the free-text value wins, falling back to "Lainnya".
func DestinationLabel(code, other string) string {
	if code == DestinationOther {
		if other != "" {
			return other
		}
		return destinationIndex[DestinationOther].Label
	}
	if d, ok := destinationIndex[code]; ok {
		return d.Label
	}
	return code
}
