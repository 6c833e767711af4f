package lib

import (
	"encoding/json"
	"io/ioutil"
)

func WriteJSONFile(fname string, x interface{}) {
	bytes, err := json.Marshal(x)
	if err != nil {
		panic(err)
	}
	if err := ioutil.WriteFile(fname, bytes, 0644); err != nil {
		panic(err)
	}
}
