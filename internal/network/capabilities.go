package network

// ClickStrategy tags how a network's SDK expects the CTA click to be dispatched.
// The game runtime owns the dispatch; the tag is build metadata only.
type ClickStrategy string

const (
	ClickWindowOpen   ClickStrategy = "window-open"    // window.open(url)
	ClickExitAPI      ClickStrategy = "exit-api"       // ExitApi.exit()
	ClickMraidOpen    ClickStrategy = "mraid-open"     // mraid.open(url)
	ClickPixelMraid   ClickStrategy = "pixel-mraid"    // click pixel then mraid.open
	ClickFbPlayable   ClickStrategy = "fb-playable"    // FbPlayableAd.onCTAClick()
	ClickOpenAppStore ClickStrategy = "open-app-store" // window.openAppStore()
	ClickTrackURL     ClickStrategy = "click-track"    // {$CLICK_TRACK_URL$} macro
	ClickGameClose    ClickStrategy = "game-close"     // gameEnd/gameClose/install
	ClickPostMessage  ClickStrategy = "post-message"   // parent.postMessage('download')
	ClickMacroPixel   ClickStrategy = "macro-pixel"    // bid-time macro pixels, no redirect
)

const (
	DefaultScriptFilename = "playable.js"
	adikteevScript        = "creative.js"
)

// AuxFile is an extra artifact copied from the network template directory
// into the network's build directory.
type AuxFile struct {
	Src string `yaml:"src" json:"src"` // relative to <templateRoot>/<network>
	Dst string `yaml:"dst" json:"dst"` // relative to the build output dir
}

// Capabilities describes the build-time behavior of one network.
type Capabilities struct {
	// RequiresInlining marks networks whose ad loader inlines the bundle itself;
	// their script is kept as a standalone file next to index.html.
	RequiresInlining bool

	// ScriptFilename is the bundle filename the bundler emits.
	ScriptFilename string

	// StandaloneScript forces the script to stay external even when
	// RequiresInlining is false (adikteev serves creative.js beside the html).
	StandaloneScript bool

	AuxFiles      []AuxFile
	ClickStrategy ClickStrategy
}

// SkipsInlining reports whether the post-processor leaves the script standalone.
func (c Capabilities) SkipsInlining() bool {
	return c.RequiresInlining || c.StandaloneScript
}

var capabilityTable = map[string]Capabilities{
	"development": {
		AuxFiles:      []AuxFile{{Src: "playable-preview.html", Dst: "playable-preview.html"}},
		ClickStrategy: ClickWindowOpen,
	},
	"aarki":    {ClickStrategy: ClickWindowOpen},
	"adcolony": {ClickStrategy: ClickMraidOpen},
	"adikteev": {
		ScriptFilename:   adikteevScript,
		StandaloneScript: true,
		AuxFiles:         []AuxFile{{Src: "style.css", Dst: "style.css"}},
		ClickStrategy:    ClickPixelMraid,
	},
	"applovin": {ClickStrategy: ClickMraidOpen},
	"bigabid": {
		AuxFiles:      []AuxFile{{Src: "ad.txt", Dst: "ad.txt"}},
		ClickStrategy: ClickMacroPixel,
	},
	"chartboost": {ClickStrategy: ClickMraidOpen},
	"facebook":   {ClickStrategy: ClickFbPlayable},
	"google":     {ClickStrategy: ClickExitAPI},
	"ironsource": {ClickStrategy: ClickMraidOpen},
	"liftoff":    {ClickStrategy: ClickMraidOpen},
	"mintegral":  {ClickStrategy: ClickGameClose},
	"moloco":     {ClickStrategy: ClickFbPlayable},
	"smadex":     {RequiresInlining: true, ClickStrategy: ClickTrackURL},
	"tencent":    {RequiresInlining: true, ClickStrategy: ClickFbPlayable},
	"tiktok": {
		AuxFiles:      []AuxFile{{Src: "config.json", Dst: "config.json"}},
		ClickStrategy: ClickOpenAppStore,
	},
	"unity":  {ClickStrategy: ClickMraidOpen},
	"vungle": {ClickStrategy: ClickPostMessage},
}

// CapabilitiesFor returns the capabilities of id. Unknown identifiers get the
// plain inlined behavior with the default script name.
func CapabilitiesFor(id string) Capabilities {
	c, ok := capabilityTable[id]
	if !ok {
		c = Capabilities{ClickStrategy: ClickWindowOpen}
	}
	if c.ScriptFilename == "" {
		c.ScriptFilename = DefaultScriptFilename
	}
	return c
}
