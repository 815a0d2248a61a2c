// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package articles stores Markdown articles as plain files under one root
directory, typically synced from a note-taking app.

Paths are slash-separated and relative to the root. Any path that resolves
outside the root, including through a symlink, fails with
models.ErrForbidden. Articles under a protected path prefix (a settings
value) are hidden from anonymous readers.

Content is served raw; rendering Markdown is left to the client. Sync can
prepend a YAML frontmatter block, and Get parses one back out.
*/
package articles
