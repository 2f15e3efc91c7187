// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

/*
Package treeconf keeps a typed configuration value in sync with a
human-editable, comment-annotated file.

It defines a type, [Store], which owns the live value of type T.
[Open] loads the file, or creates it from defaults if it does not exist,
and rewrites it in the shape of T with the comments and header declared
on T (see package schema). The value is read with [Store.Get],
refreshed from the file with [Store.Reload] and persisted with [Store.Save].
Listeners registered with [Store.OnReload] observe every reload.

Values are converted to and from the file through a neutral tree
(package tree) by a [mapper.Mapper], whose registry of adapters
overrides the structural conversion for specific types.
The file is YAML by default, or TOML if its name ends with `.toml`.
*/
package treeconf
