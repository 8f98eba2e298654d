// Package logx is a thin structured-logging layer over zerolog.
//
// It exposes a small value-type Logger so library packages can accept a
// logger without caring whether the host configured one: the zero value
// and Nop() are safe no-op loggers.
package logx
