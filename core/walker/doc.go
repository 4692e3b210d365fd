// Package walker enumerates the physical files a pipeline reconciles.
//
// A Walker splits a source root into partitions and then streams the files of
// one partition at a time through a callback. Two variants exist:
//
//   - DirectoryWalker: every immediate subdirectory of the root is a partition;
//     the files directly inside it are its entries.
//   - ArchiveWalker: every *.zip found anywhere under the root is a partition;
//     its entries are read through the archive's central directory. The archive
//     is opened when Walk starts and closed before it returns.
//
// Files whose extension is not in the walker's Extensions are skipped without
// being opened. Partitions and directory entries are sorted so that repeated
// runs visit files in the same order; archive entries keep archive order.
//
// File contents are never read by the walker itself. File.Open returns a fresh
// reader, so at most one file per partition needs to be held at a time.
package walker
