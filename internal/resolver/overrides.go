package resolver

// curatedOverrides maps entry IDs to manually verified image URLs. Overrides
// win unconditionally and bypass all network activity for the entry. Add a
// row here when a vendor page defeats the heuristics.
var curatedOverrides = map[string]string{
	"logitech-mx-master-3s": "https://resource.logitech.com/content/dam/logitech/en/products/mice/mx-master-3s/gallery/mx-master-3s-mouse-top-view-graphite.png",
	"keychron-q1-pro":       "https://cdn.keychron.com/products/q1-pro/q1-pro-carbon-black.jpg",
	"ducky-one-3":           "https://www.duckychannel.com.tw/upload/2022_one3/One3-daybreak-full.png",
	"glorious-model-o":      "https://www.gloriousgaming.com/cdn/shop/products/model-o-matte-black-hero.png",
}
