// Package archive fingerprints every entry of every zip archive below a
// directory.
//
// Each archive yields <name>.json in the output directory, listing its
// entries in archive order as {file_path, file_name, sha256}. file_path is the
// entry path joined to the directory holding the archive. An archive that
// cannot be read is logged and produces no manifest; the others still do.
package archive
