package lexicon

import "parcelgraph/lib/telemetry"

var tracer = telemetry.Tracer("parcelgraph.services.lexicon")
