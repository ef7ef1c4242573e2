package lib

import "encoding/json"

// Prettystats uses json.MarshalIndent, if pretty is true, instead of
// json.Marshal. If Marshal return error Prettystats will panic.
func Prettystats(stats map[string]interface{}, pretty bool) string {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(stats, "", "  ")
	} else {
		data, err = json.Marshal(stats)
	}
	if err != nil {
		panic(err)
	}
	return string(data)
}
