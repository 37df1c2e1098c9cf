package leepa

import (
	"parcelgraph/lib/telemetry"
)

var tracer = telemetry.Tracer("parcelgraph.lib.scrapers.leepa")
