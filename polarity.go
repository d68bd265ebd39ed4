package main

// pinLevel converts a desired outlet state into the electrical level for its
// relay.  Active-high boards close the relay on a high signal; active-low
// boards (common on cheap opto-isolated modules) close it on a low signal.
func pinLevel(desired, activeLow bool) bool {
    if activeLow {
        return !desired
    }
    return desired
}

// outletActive interprets a raw pin level read back from the driver.
func outletActive(level, activeLow bool) bool {
    return pinLevel(level, activeLow)
}
