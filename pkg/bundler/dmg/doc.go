// Package dmg produces macOS disk images.
//
// The strategy obtains the application bundle through the resolver, writes
// bundle_dmg.sh and its support files into <projectOut>/bundle/dmg and runs
// the script in the app bundle's directory:
//
//	bundle_dmg.sh --volname App_1.2.0_x64 \
//	    --icon App.app 180 170 --app-drop-link 480 170 \
//	    --window-size 660 400 --hide-extension App.app \
//	    App_1.2.0_x64.dmg App.app
//
// Args builds this list without side effects. When CI is "true" the
// --skip-jenkins flag is appended so the Finder AppleScript is skipped on
// headless machines.
//
// The output directory is removed and recreated on every run, so reruns with
// identical inputs leave an identical tree.
package dmg
