// Package domain models river conditions for the Oxford stretch of the
// Thames: gauge flow, rowing-club flags, and lock stream-advice boards.
//
// # Data Sources
//
// Flow readings come from the Environment Agency flood-monitoring API
// (https://environment.data.gov.uk/flood-monitoring). Two response shapes are
// consumed:
//
//	Station readings:  {"items": [{...}, {"value": 41.2, "dateTime": "2023-06-01T12:00:00Z"}]}
//	Per-measure:       {"items": {"latestReading": {"value": 1.93, "dateTime": "..."}}}
//
// Flag status comes from the OURC flag API, one document per reach:
//
//	{"status_text": "Red", "set_date": "2023-06-01T07:31:02.123456Z"}
//
// Lock stream advice is scraped from the river conditions page, which lists
// each stretch with a phrase such as "Caution stream decreasing" and a single
// "Last updated 1 June 2023 09:15" line.
//
// # Flow Derivation
//
// Farmoor (single station) is the gauge's own flow figure in m³/s.
//
// The Isis figure is a differential estimate from two level gauges:
//
//	flow = 100 × (downstream_level − upstream_level − calibration_offset)
//
// The calibration offset (2.07 in the reference deployment) is site-specific
// and supplied by configuration. The derived reading carries the earlier of
// the two input timestamps: it is only as fresh as its staler input.
//
// # Severity Tiers
//
// Each source has its own closed tier set. Tiers are not comparable across
// sources.
//
//	Farmoor:  <45 green | <55 amber | ≥55 red
//	Isis:     <33 green | <53 blue | <73 amber | ≥73 red
//	Flags:    the flag colour itself: green, blue, orange, red, black, grey
//	Boards:   no stream warnings grey | stream increasing/decreasing yellow |
//	          strong stream red
//
// Thresholds are inclusive on the lower bound: 45.000 is amber, 55.000 is red.
//
// Grey results render dimmed and black results render with an attention
// style, since plain black text disappears on a dark terminal. See
// [PresentationFor].
//
// # Lock Board Stretches
//
// The conditions page names stretches ("Osney Lock to Iffley Lock") rather
// than locks. A stretch is assigned to the lock it starts at. This mapping is
// an assumption: it has not been confirmed which board the Osney and Iffley
// rows actually describe.
//
// # Failure Model
//
// Every failure is fatal to the run. Unknown flag colours and unknown advice
// phrases are errors rather than a default tier, because an unrecognised value
// means the source changed format and a guessed classification would mislead.
package domain
