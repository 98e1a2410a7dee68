package dmg

// Window layout of the mounted disk image.
const (
	iconX        = "180"
	iconY        = "170"
	dropLinkX    = "480"
	dropLinkY    = "170"
	windowWidth  = "660"
	windowHeight = "400"
)

// ArgsOptions are the inputs of the bundle_dmg.sh argument list.
type ArgsOptions struct {
	// VolumeName is the package base name, used as volume name and dmg file stem.
	VolumeName string
	// VolumeIcon is an absolute .icns path, omitted when empty.
	VolumeIcon string
	// AppName is the file name of the .app bundle, e.g. "App.app".
	AppName string
	// License is the EULA path, omitted when empty.
	License string
	// SkipJenkins adds --skip-jenkins for headless builds.
	SkipJenkins bool
}

// Args returns the bundle_dmg.sh argument list, ending with the dmg file
// name and the source .app bundle.
func Args(o ArgsOptions) []string {
	args := []string{"--volname", o.VolumeName}
	if o.VolumeIcon != "" {
		args = append(args, "--volicon", o.VolumeIcon)
	}
	args = append(args,
		"--icon", o.AppName, iconX, iconY,
		"--app-drop-link", dropLinkX, dropLinkY,
		"--window-size", windowWidth, windowHeight,
		"--hide-extension", o.AppName,
	)
	if o.License != "" {
		args = append(args, "--eula", o.License)
	}
	if o.SkipJenkins {
		args = append(args, "--skip-jenkins")
	}
	return append(args, o.VolumeName+".dmg", o.AppName)
}
