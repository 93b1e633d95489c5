// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package wldui implements the interactive fragment browser behind
// eqforge-view. Built on bubbletea (Elm architecture): a fragment
// list pane on the left, a decoded detail pane on the right, with
// incremental filtering over fragment names and type names.
//
// The browser is read-only; it renders a parsed [wld.Document] and
// never mutates it.
package wldui
