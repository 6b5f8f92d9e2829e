package config

const (
	defaultCheckpointEvery    = 500
	defaultMaxInFlight        = 5000
	defaultItemTimeoutSeconds = 60

	defaultDarkThreshold        = 40.0
	defaultOverexposedThreshold = 220.0
	defaultArtifactThreshold    = 50.0
	defaultCornerPatchFraction  = 0.1
	defaultMaxImageDimension    = 2048
	defaultDuplicateHamming     = 8
)

var defaultExtensions = []string{
	".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif", ".webp", ".gif",
}

// Default returns the compiled-in configuration. Workers defaults to 0,
// meaning one analyzer worker per CPU.
func Default() Config {
	return Config{
		Scan: Scan{
			Workers:            0,
			CheckpointEvery:    defaultCheckpointEvery,
			MaxInFlight:        defaultMaxInFlight,
			ItemTimeoutSeconds: defaultItemTimeoutSeconds,
			IncludeHashes:      true,
			SkipPixelStats:     false,
			Extensions:         append([]string(nil), defaultExtensions...),
			Resume:             true,
		},
		Thresholds: Thresholds{
			Dark:                defaultDarkThreshold,
			Overexposed:         defaultOverexposedThreshold,
			Artifact:            defaultArtifactThreshold,
			CornerPatchFraction: defaultCornerPatchFraction,
			MaxImageDimension:   defaultMaxImageDimension,
			DuplicateHamming:    defaultDuplicateHamming,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}
