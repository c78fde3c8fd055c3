package domain

// FormatVersion is the only envelope layout this module reads and writes.
const FormatVersion = "1"

// envelopeFields is the number of colon-separated fields in a serialized envelope.
const envelopeFields = 5

const separator = ":"
