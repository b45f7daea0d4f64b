// Package domain models earthquake events from the USGS FDSN event service.
//
// # Data Source
//
// Events come from the USGS earthquake catalogue query endpoint
// (https://earthquake.usgs.gov/fdsnws/event/1/), requested in GeoJSON
// format. The response is a FeatureCollection:
//
//	{"type":"FeatureCollection","features":[
//	  {"id":"us1000abcd",
//	   "properties":{"mag":2.4,"place":"5 km NW of Dover","time":1136073600000},
//	   "geometry":{"type":"Point","coordinates":[-2.5,51.0,10.0]}}
//	]}
//
// # Conventions
//
// Coordinates are ordered [longitude, latitude, depth_km] as GeoJSON
// requires. Parsing swaps them into Geo{Lat, Lon}.
//
// Time is epoch milliseconds (UTC). Calendar years are derived in a
// caller-supplied *time.Location so grouping can follow the local calendar.
//
// Magnitude may be null for events the network could not size. A null
// magnitude is carried as a nil pointer: it never wins the strongest-event
// selection and is excluded from every per-year aggregate.
package domain
