package metadata

import "slices"

// oddClones are clones whose emulator binary is named after their parent
// even though their parent system differs.
var oddClones = []string{"gradius", "crimfghtu", "cyberbalt"}

// BinaryID returns the emulator binary a MAME machine runs on.
func BinaryID(gameID, cloneOf, parentSystem string) string {
	if slices.Contains(oddClones, gameID) {
		return cloneOf
	}
	if parentSystem == cloneOf {
		return gameID
	}
	return parentSystem
}

// WasmFile is the compressed assembly of a binary.
func WasmFile(id string) string { return "mame" + id + ".wasm.gz" }

// JSFile is the compressed assembly script of a binary.
func JSFile(id string) string { return "mame" + id + ".js.gz" }

// PrimaryLocation is the file_locations entry naming the assembly by
// convention.
func PrimaryLocation(id string) string { return "mame" + id + ".wasm" }
