package crypto

// words is the passphrase vocabulary: short lowercase tokens, no duplicates.
var words = []string{
	"mango", "river", "sunset", "forest", "coffee", "panda", "galaxy", "pebble",
	"rocket", "orange", "island", "orchid", "maple", "canyon", "thunder", "breeze",
	"mentor", "pixel", "cotton", "ember", "velvet", "lotus", "yoga", "delta",
	"pepper", "copper", "nova", "sierra", "arctic", "safari", "shadow", "silver",
	"cosmic", "harbor", "turbo", "matrix", "sonic", "tundra", "oasis", "fusion",
	"echo", "falcon", "nimbus", "vortex", "raven", "sable", "coral", "jade",
	"onyx", "quartz", "amber", "hazel", "mint", "ivory", "pluto", "neon",
	"aster", "aurora", "denim", "cloud", "meadow", "tiger", "zebra", "otter",
	"willow", "pine", "cedar", "drift", "polar", "dune", "cocoa", "ginger",
	"sol", "lunar", "terra", "comet", "alfa", "bravo", "kilo", "zulu",
	"omega", "sigma", "gamma", "theta", "zen", "rapid", "quiet", "glow",
	"calm", "brisk", "flame", "frost", "mellow", "splash", "ripple", "sprout",
	"bloom", "spark", "pulse", "orbit", "trail", "summit", "ridge", "grove",
	"lagoon", "basil", "walnut", "heron", "lantern", "marble", "prairie", "saffron",
}

// separators never overlap with letters or digits, so any of them satisfies
// the symbol check.
const separators = "-_.@+"
