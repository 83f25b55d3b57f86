//go:build !streamdebug

package stream

const strictInvariants = false
