package board

// DebugMoveValidation gates the expensive internal consistency checks
// (piece bitboards vs occupancy, hash vs position state) scattered
// through the search and UCI layers. Off by default; toggled on by the
// UCI "debug" option.
var DebugMoveValidation = false
