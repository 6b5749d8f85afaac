package federation

// Version is the released version of the module. It matches the version the
// embedded bridge reports through its version export.
const Version = "0.9.4"
