// Package parallel replays several command scripts concurrently.
//
// Every script gets its own list, so no list is ever shared between
// goroutines. WorkerPool bounds how many scripts run at once and can stop
// the remaining ones after the first failure.
package parallel
