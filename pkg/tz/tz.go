package tz

import "time"

// Madrid is the Europe/Madrid location (CET/CEST with automatic DST).
var Madrid *time.Location

func init() {
	var err error
	Madrid, err = time.LoadLocation("Europe/Madrid")
	if err != nil {
		panic("tz: load Europe/Madrid: " + err.Error())
	}
}
