package utils

// ContextKeySession is the key under which the live session is stored in the
// echo context by the session middleware.
const ContextKeySession = "session"
