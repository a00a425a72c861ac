// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package rpi provides the pin set of the Raspberry Pi R1 and R2 boards.
//
// Pins are identified by BCM number, as used by the sysfs GPIO interface.
package rpi

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// GPIO aliases for the pins exposed on the P1 and P5 headers.
const (
	GPIO0  = 0 // R1 only
	GPIO1  = 1 // R1 only
	GPIO2  = 2 // R2 only
	GPIO3  = 3 // R2 only
	GPIO4  = 4
	GPIO7  = 7
	GPIO8  = 8
	GPIO9  = 9
	GPIO10 = 10
	GPIO11 = 11
	GPIO14 = 14
	GPIO15 = 15
	GPIO17 = 17
	GPIO18 = 18
	GPIO21 = 21 // R1 only
	GPIO22 = 22
	GPIO23 = 23
	GPIO24 = 24
	GPIO25 = 25
	GPIO27 = 27 // R2 only
	GPIO28 = 28 // R2 only - P5
	GPIO29 = 29 // R2 only - P5
	GPIO30 = 30 // R2 only - P5
	GPIO31 = 31 // R2 only - P5
)

// Convenience mapping from R2 P1 and P5 pinouts to BCM pinouts.
const (
	P1p3  = GPIO2
	P1p5  = GPIO3
	P1p7  = GPIO4
	P1p8  = GPIO14
	P1p10 = GPIO15
	P1p11 = GPIO17
	P1p12 = GPIO18
	P1p13 = GPIO27
	P1p15 = GPIO22
	P1p16 = GPIO23
	P1p18 = GPIO24
	P1p19 = GPIO10
	P1p21 = GPIO9
	P1p22 = GPIO25
	P1p23 = GPIO11
	P1p24 = GPIO8
	P1p26 = GPIO7
	P5p3  = GPIO28
	P5p4  = GPIO29
	P5p5  = GPIO30
	P5p6  = GPIO31
)

var valid = map[int]bool{
	GPIO0:  true,
	GPIO1:  true,
	GPIO2:  true,
	GPIO3:  true,
	GPIO4:  true,
	GPIO7:  true,
	GPIO8:  true,
	GPIO9:  true,
	GPIO10: true,
	GPIO11: true,
	GPIO14: true,
	GPIO15: true,
	GPIO17: true,
	GPIO18: true,
	GPIO21: true,
	GPIO22: true,
	GPIO23: true,
	GPIO24: true,
	GPIO25: true,
	GPIO27: true,
	GPIO28: true,
	GPIO29: true,
	GPIO30: true,
	GPIO31: true,
}

var p1Names = map[string]int{
	"3":  P1p3,
	"5":  P1p5,
	"7":  P1p7,
	"8":  P1p8,
	"10": P1p10,
	"11": P1p11,
	"12": P1p12,
	"13": P1p13,
	"15": P1p15,
	"16": P1p16,
	"18": P1p18,
	"19": P1p19,
	"21": P1p21,
	"22": P1p22,
	"23": P1p23,
	"24": P1p24,
	"26": P1p26,
}

var p5Names = map[string]int{
	"3": P5p3,
	"4": P5p4,
	"5": P5p5,
	"6": P5p6,
}

// ErrInvalid indicates the pin name does not match a known pin.
var ErrInvalid = errors.New("invalid pin name")

// IsValid returns true if the BCM pin is exposed on either board revision.
func IsValid(p int) bool {
	return valid[p]
}

// Pins returns the valid BCM pins in ascending order.
func Pins() []int {
	pp := make([]int, 0, len(valid))
	for p := range valid {
		pp = append(pp, p)
	}
	sort.Ints(pp)
	return pp
}

// PinName returns the GPIO name of the BCM pin.
func PinName(p int) string {
	return fmt.Sprintf("GPIO%d", p)
}

func rangeCheck(p int) (int, error) {
	if !valid[p] {
		return 0, ErrInvalid
	}
	return p, nil
}

func lookup(names map[string]int, s string) (int, error) {
	v, ok := names[s]
	if !ok {
		return 0, ErrInvalid
	}
	return v, nil
}

// Pin maps a pin string name to a pin number.
//
// Pin names are case insensitive and may be of the form P1pX, P5pX, GPIOX, or
// X.
func Pin(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "p1p"):
		return lookup(p1Names, s[3:])
	case strings.HasPrefix(s, "p5p"):
		return lookup(p5Names, s[3:])
	case strings.HasPrefix(s, "gpio"):
		s = s[4:]
	}
	v, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return 0, ErrInvalid
	}
	return rangeCheck(int(v))
}

// MustPin converts the string to the corresponding pin number or panics if that
// is not possible.
func MustPin(s string) int {
	v, err := Pin(s)
	if err != nil {
		panic(err)
	}
	return v
}
