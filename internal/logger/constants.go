package logger

// ServiceName is the default service attribute attached to every log line.
const ServiceName = "boxgame-server"
