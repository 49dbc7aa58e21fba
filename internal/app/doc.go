// Package app is the composition root for lineup.
//
// Run loads the config, points the standard logger at the log file (the
// terminal belongs to the TUI), builds the feed client, image cache and
// state store, starts the loader and then blocks in the UI until the user
// quits or the context is cancelled.
//
//	Run()
//	  ├─> config.Load()          config.toml, -feed override
//	  ├─> tea.LogToFile()        log output
//	  ├─> feed.NewClient()       CSV feed over HTTP
//	  ├─> imagecache.New()       preloading image cache
//	  ├─> StartLoader()          one fetch, then cache.Prime
//	  └─> ui.Run()               Bubble Tea program (blocks)
//
// The feed is fetched exactly once. A failed fetch is recorded in the store
// and shown in the header; there is no retry.
package app
