package catalog

// Channels is the full channel catalog in display order: the 3ds Max list, the
// SketchUp list, then the three distinguished bonus channels.
var Channels = []Channel{
	// 3ds Max list
	{Category: "3ds Max", Name: "3D Premium", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Furniture Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Decoration Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Lighting Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Kitchen Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Bathroom Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Doors and Windows Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Tech and Music Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Childroom Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Models Studio Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Architecture Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Tree and Plants Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Transport Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "Retail and Sport Models", Link: "#", Software: SoftwareMax},
	{Category: "3ds Max", Name: "People and Animal Models", Link: "#", Software: SoftwareMax},

	// SketchUp list
	{Category: "SketchUp", Name: "Model Studio SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "People and Animals SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Doors & Windows SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Bathroom SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Furniture SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Decoration SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Architecture SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Transport SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Tech and Music SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Kitchen SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Lighting SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Tree and Plants SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Retail and Sport SU Models", Link: "#", Software: SoftwareSketchUp},
	{Category: "SketchUp", Name: "Childroom SU Models", Link: "#", Software: SoftwareSketchUp},

	// Extras
	{Category: "Textures", Name: ChannelPremiumTexture, Link: "#", Software: SoftwareTexture},
	{Category: "Software", Name: ChannelSoftwareLibrary, Link: "#", Software: SoftwareLibrary},
	{Category: "Megascan", Name: ChannelMegascan, Link: "#", Software: SoftwareMegascan},
}
