package embedded

import (
	_ "embed"
)

// Exercise presets
//
//go:embed data/styles.yaml
var StylesYAML []byte

//go:embed data/fingerings.yaml
var FingeringsYAML []byte
