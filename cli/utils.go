package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/capitalninja/ninja/core/investor"
)

func prettyPrint(i interface{}) string {
	s, _ := json.MarshalIndent(i, "", "\t")
	return string(s)
}

// parseAUM reads a "min-max" bucket in billions of dollars.
func parseAUM(s string) (*investor.AUMRange, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return nil, fmt.Errorf("aum %q must look like min-max", s)
	}
	flt, err := investor.ParseValues(url.Values{
		investor.ParamAUMMin: {strings.TrimSpace(lo)},
		investor.ParamAUMMax: {strings.TrimSpace(hi)},
	})
	if err != nil {
		return nil, err
	}
	return flt.AUMRange, nil
}

func formatAUM(aum *float64) string {
	if aum == nil {
		return "-"
	}
	return strconv.FormatFloat(*aum/1e9, 'f', 2, 64)
}
