package simhw

import "errors"

var errNoData = errors.New("simhw: no data available")
