// Package scene loads the item sets that collections arrange.
//
// A scene file is TOML or JSON. It names the items to lay out and may carry a
// [collection] table with settings that override the caller's defaults:
//
//	name = "gallery"
//
//	[collection]
//	surface = "sphere"
//	orient = "face-origin-reversed"
//	radius = 3.0
//
//	[[items]]
//	id = "portrait"
//	extent = [1.0, 1.5, 0.1]
//
//	[[items]]
//	name = "Landscape"
//	active = false
//
// The equivalent JSON uses the same keys. Each [Item] implements
// [collection.Item], [collection.Bounded] and [collection.Offsetter].
package scene
