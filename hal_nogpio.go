//go:build disablegpio
// +build disablegpio

package main

import "errors"

// newPeriphDriver is unavailable in builds tagged disablegpio; only the sim
// driver can be selected.
func newPeriphDriver() (PinDriver, error) {
    return nil, errors.New("periph driver disabled in this build (disablegpio)")
}
