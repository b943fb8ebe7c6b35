package lexer

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func nanValue() float64 { return math.NaN() }
func infValue() float64 { return math.Inf(1) }

var byteSuffixes = map[string]struct {
	exponent int
	base1000 bool
}{
	"kb": {1, true}, "kib": {1, false},
	"mb": {2, true}, "mib": {2, false},
	"gb": {3, true}, "gib": {3, false},
	"tb": {4, true}, "tib": {4, false},
	"pb": {5, true}, "pib": {5, false},
	"eb": {6, true}, "eib": {6, false},
}

var timeDeltaUnits = map[string]TimeUnit{
	"nanosecond": UnitNanosecond, "nanoseconds": UnitNanosecond, "ns": UnitNanosecond,
	"microsecond": UnitMicrosecond, "microseconds": UnitMicrosecond, "us": UnitMicrosecond, "µs": UnitMicrosecond,
	"millisecond": UnitMillisecond, "milliseconds": UnitMillisecond, "ms": UnitMillisecond,
	"second": UnitSecond, "seconds": UnitSecond, "s": UnitSecond,
	"minute": UnitMinute, "minutes": UnitMinute, "m": UnitMinute,
	"hour": UnitHour, "hours": UnitHour, "h": UnitHour,
	"day": UnitDay, "days": UnitDay, "d": UnitDay,
	"week": UnitWeek, "weeks": UnitWeek, "w": UnitWeek,
	"month": UnitMonth, "months": UnitMonth,
	"year": UnitYear, "years": UnitYear,
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isASCIIDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanDigitGroup consumes a run of ASCII digits with optional single
// apostrophe grouping separators (never leading, trailing, or doubled),
// returning the digits with separators stripped and the full raw text
// including separators.
func (lx *Lexer) scanDigitGroup(loc Location, isDigit func(rune) bool) (digits, raw string, err error) {
	var d, r strings.Builder
	lastWasSeparator := false
	sawDigit := false
	for {
		c, cerr := lx.dec.Current()
		if cerr != nil {
			return "", "", cerr
		}
		if isDigit(c.Rune) {
			d.WriteRune(c.Rune)
			r.WriteRune(c.Rune)
			lx.dec.Advance()
			lastWasSeparator = false
			sawDigit = true
			continue
		}
		if c.Rune == '\'' {
			if !sawDigit || lastWasSeparator {
				return "", "", Errorf(Syntax, loc, "digit group separator must not be leading or doubled")
			}
			r.WriteRune('\'')
			lx.dec.Advance()
			lastWasSeparator = true
			continue
		}
		break
	}
	if lastWasSeparator {
		return "", "", Errorf(Syntax, loc, "digit group separator must not be trailing")
	}
	return d.String(), r.String(), nil
}

// scanNumberOrDateTime dispatches an initial digit run (unsigned case has
// already consumed zero characters; the signed case has already consumed
// sign but left it in `sign`) to Date/Time/DateTime literal scanning first
// (unsigned only), falling back to Integer/Float/TimeDelta.
func (lx *Lexer) scanNumberOrDateTime(begin Position, sign string) (Token, error) {
	if sign == "" {
		if tok, ok, err := lx.tryScanDateOrTime(begin); err != nil {
			return Token{}, err
		} else if ok {
			return tok, nil
		}
	}
	return lx.scanNumberLiteral(begin, sign)
}

// tryScanNanOrInf scans the keywords "nan"/"NaN"/"inf"/"INF" (case
// sensitive only in those two specific castings per spec §4.4), optionally
// signed. ok is false (no error, nothing consumed) if the word doesn't
// match either keyword.
func (lx *Lexer) tryScanNanOrInf(begin Position, sign string) (Token, bool, error) {
	save := lx.dec.Begin()
	word, err := lx.scanLowerWord()
	if err != nil {
		save.RollbackIfOpen()
		return Token{}, false, err
	}
	var f float64
	switch word {
	case "nan", "NaN":
		f = nanValue()
	case "inf", "INF":
		f = infValue()
	default:
		save.Rollback()
		return Token{}, false, nil
	}
	save.Commit()
	if sign == "-" {
		f = -f
	}
	tok, _ := lx.finish(Float, begin, sign+word)
	tok.Payload.Float = f
	tok.HasValue = true
	return tok, true, nil
}

func (lx *Lexer) tryScanDateOrTime(begin Position) (Token, bool, error) {
	loc := lx.loc(begin)
	tx := lx.dec.Begin()

	year, ok1 := lx.scanExactDigits(4)
	if ok1 {
		if c, _ := lx.dec.Current(); c.Rune == '-' {
			lx.dec.Advance()
			month, ok2 := lx.scanExactDigits(2)
			if ok2 {
				if c2, _ := lx.dec.Current(); c2.Rune == '-' {
					lx.dec.Advance()
					day, ok3 := lx.scanExactDigits(2)
					if ok3 {
						date, derr := buildDate(year, month, day, loc)
						if derr != nil {
							tx.RollbackIfOpen()
							return Token{}, false, derr
						}
						// Check for a DateTime separator.
						if c3, _ := lx.dec.Current(); c3.Rune == ' ' || c3.Rune == 't' || c3.Rune == 'T' {
							save := lx.dec.Begin()
							lx.dec.Advance()
							timeVal, timeRaw, terr, tok2 := lx.scanTimeBody(loc)
							if terr == nil && tok2 {
								save.Commit()
								raw := tx.Commit()
								tok, _ := lx.finish(DateTime, begin, raw+string(c3.Rune)+timeRaw)
								tok.Payload.DateTime = DateTimeValue{Date: date, Time: timeVal}
								tok.HasValue = true
								return tok, true, nil
							}
							save.Rollback()
						}
						raw := tx.Commit()
						tok, _ := lx.finish(Date, begin, raw)
						tok.Payload.Date = date
						tok.HasValue = true
						return tok, true, nil
					}
				}
			}
		}
	}
	tx.Rollback()

	tx2 := lx.dec.Begin()
	timeVal, timeRaw, terr, tok2 := lx.scanTimeBody(loc)
	if terr == nil && tok2 {
		raw := tx2.Commit()
		_ = raw
		tok, _ := lx.finish(Time, begin, timeRaw)
		tok.Payload.Time = timeVal
		tok.HasValue = true
		return tok, true, nil
	}
	tx2.Rollback()
	return Token{}, false, nil
}

// scanExactDigits consumes exactly n ASCII digits and reports false if
// fewer are available. It does not roll back the digits it consumed;
// callers wrap it in their own transaction since it may be called
// speculatively.
func (lx *Lexer) scanExactDigits(n int) (string, bool) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		c, err := lx.dec.Current()
		if err != nil || !isASCIIDigit(c.Rune) {
			return "", false
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	return b.String(), true
}

func buildDate(yearS, monthS, dayS string, loc Location) (DateValue, error) {
	year, _ := strconv.Atoi(yearS)
	month, _ := strconv.Atoi(monthS)
	day, _ := strconv.Atoi(dayS)
	if year < 1 || year > 9999 {
		return DateValue{}, Errorf(Syntax, loc, "year out of range")
	}
	if month < 1 || month > 12 {
		return DateValue{}, Errorf(Syntax, loc, "month out of range")
	}
	if day < 1 || day > daysInMonth(year, month) {
		return DateValue{}, Errorf(Syntax, loc, "day out of range")
	}
	return DateValue{Year: year, Month: month, Day: day}, nil
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}

// scanTimeBody scans HH:MM[:SS[.fraction]][tz] starting at the current
// cursor position (no leading characters consumed by the caller). Returns
// ok=false (without error) if the input does not look like a time at all,
// so the caller can try something else; returns a non-nil error once it
// has committed to "this is a malformed time".
func (lx *Lexer) scanTimeBody(loc Location) (TimeValue, string, error, bool) {
	var raw strings.Builder
	hourS, ok := lx.scanExactDigits(2)
	if !ok {
		return TimeValue{}, "", nil, false
	}
	raw.WriteString(hourS)
	if c, _ := lx.dec.Current(); c.Rune != ':' {
		return TimeValue{}, "", nil, false
	}
	lx.dec.Advance()
	raw.WriteByte(':')
	minS, ok := lx.scanExactDigits(2)
	if !ok {
		return TimeValue{}, "", Errorf(Syntax, loc, "malformed time literal"), true
	}
	raw.WriteString(minS)
	hour, _ := strconv.Atoi(hourS)
	minute, _ := strconv.Atoi(minS)
	if hour > 23 || minute > 59 {
		return TimeValue{}, "", Errorf(Syntax, loc, "time component out of range"), true
	}
	tv := TimeValue{Hour: hour, Minute: minute}

	if c, _ := lx.dec.Current(); c.Rune == ':' {
		lx.dec.Advance()
		raw.WriteByte(':')
		secS, ok := lx.scanExactDigits(2)
		if !ok {
			return TimeValue{}, "", Errorf(Syntax, loc, "malformed seconds in time literal"), true
		}
		raw.WriteString(secS)
		sec, _ := strconv.Atoi(secS)
		if sec > 60 {
			return TimeValue{}, "", Errorf(Syntax, loc, "seconds out of range"), true
		}
		tv.HasSeconds = true
		tv.Second = sec

		if c2, _ := lx.dec.Current(); c2.Rune == '.' {
			lx.dec.Advance()
			raw.WriteByte('.')
			digits, _, derr := lx.scanDigitGroup(loc, isASCIIDigit)
			if derr != nil || len(digits) == 0 || len(digits) > 9 {
				return TimeValue{}, "", Errorf(Syntax, loc, "fraction must be 1-9 digits"), true
			}
			raw.WriteString(digits)
			nanos, _ := strconv.Atoi((digits + "000000000")[:9])
			tv.HasFraction = true
			tv.NanoFraction = nanos
		}
	}

	if c, _ := lx.dec.Current(); c.Rune == 'z' || c.Rune == 'Z' {
		lx.dec.Advance()
		raw.WriteRune(c.Rune)
		tv.HasZone = true
		tv.ZoneIsUTC = true
	} else if c.Rune == '+' || c.Rune == '-' {
		if offset, zraw, ok := lx.scanZoneOffset(c.Rune); ok {
			raw.WriteString(zraw)
			tv.HasZone = true
			tv.ZoneOffsetMinutes = offset
		}
	}

	return tv, raw.String(), nil, true
}

// scanZoneOffset scans "±HH" or "±HH:MM" after signRune has been peeked
// but not yet consumed. Returns ok=false (with the cursor rolled back) if
// the digits do not look like a zone offset.
func (lx *Lexer) scanZoneOffset(signRune rune) (offsetMinutes int, raw string, ok bool) {
	sign := 1
	if signRune == '-' {
		sign = -1
	}
	save := lx.dec.Begin()
	lx.dec.Advance()
	tzHour, hourOk := lx.scanExactDigits(2)
	if !hourOk {
		save.Rollback()
		return 0, "", false
	}
	offset := sign * (atoi(tzHour) * 60)
	zraw := string(signRune) + tzHour
	if c2, _ := lx.dec.Current(); c2.Rune == ':' {
		lx.dec.Advance()
		tzMin, minOk := lx.scanExactDigits(2)
		if !minOk {
			save.Rollback()
			return 0, "", false
		}
		offset = sign * (atoi(tzHour)*60 + atoi(tzMin))
		zraw += ":" + tzMin
	}
	save.Commit()
	return offset, zraw, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// scanNumberLiteral handles Integer, Float, and TimeDelta literals, all of
// which begin with a digit run (optionally hex/binary prefixed) and branch
// on what follows.
func (lx *Lexer) scanNumberLiteral(begin Position, sign string) (Token, error) {
	loc := lx.loc(begin)
	raw := sign

	c, err := lx.dec.Current()
	if err != nil {
		return Token{}, err
	}
	if c.Rune == '0' {
		save := lx.dec.Begin()
		lx.dec.Advance()
		c2, _ := lx.dec.Current()
		if c2.Rune == 'x' || c2.Rune == 'X' {
			lx.dec.Advance()
			digits, grouped, derr := lx.scanDigitGroup(loc, isHexDigit)
			if derr != nil {
				return Token{}, derr
			}
			if digits == "" {
				return Token{}, Errorf(Syntax, loc, "empty hexadecimal integer")
			}
			save.Commit()
			val, perr := strconv.ParseInt(digits, 16, 64)
			if perr != nil {
				return Token{}, Errorf(LimitExceeded, loc, "hexadecimal integer out of range")
			}
			if sign == "-" {
				val = -val
			}
			tok, _ := lx.finish(Integer, begin, raw+"0x"+grouped)
			tok.Payload.Int = val
			tok.HasValue = true
			return tok, nil
		}
		if c2.Rune == 'b' || c2.Rune == 'B' {
			lx.dec.Advance()
			digits, grouped, derr := lx.scanDigitGroup(loc, func(r rune) bool { return r == '0' || r == '1' })
			if derr != nil {
				return Token{}, derr
			}
			if digits == "" {
				return Token{}, Errorf(Syntax, loc, "empty binary integer")
			}
			save.Commit()
			val, perr := strconv.ParseInt(digits, 2, 64)
			if perr != nil {
				return Token{}, Errorf(LimitExceeded, loc, "binary integer out of range")
			}
			if sign == "-" {
				val = -val
			}
			tok, _ := lx.finish(Integer, begin, raw+"0b"+grouped)
			tok.Payload.Int = val
			tok.HasValue = true
			return tok, nil
		}
		save.Rollback()
	}

	digits, grouped, derr := lx.scanDigitGroup(loc, isASCIIDigit)
	if derr != nil {
		return Token{}, derr
	}
	if len(digits) > 1 && digits[0] == '0' {
		return Token{}, Errorf(Syntax, loc, "decimal integer must not have a leading zero")
	}
	raw += grouped

	// Float: mandatory decimal point.
	if c, _ := lx.dec.Current(); c.Rune == '.' {
		save := lx.dec.Begin()
		lx.dec.Advance()
		fracDigits, fracGrouped, ferr := lx.scanDigitGroup(loc, isASCIIDigit)
		if ferr != nil {
			return Token{}, ferr
		}
		if digits == "" && fracDigits == "" {
			save.Rollback()
			return Token{}, Errorf(Syntax, loc, "malformed float literal")
		}
		save.Commit()
		raw += "." + fracGrouped
		return lx.finishFloat(begin, raw, digits, fracDigits, loc)
	}

	// Exponent without a decimal point is still a float per spec grammar
	// `[eE][+-]?digits`; but plain integers never carry one, so only look
	// for an exponent if we haven't already returned.
	if c, _ := lx.dec.Current(); c.Rune == 'e' || c.Rune == 'E' {
		if tok, ok, ferr := lx.tryScanExponent(begin, raw, digits, "", loc); ferr != nil {
			return Token{}, ferr
		} else if ok {
			return tok, nil
		}
	}

	if digits == "" {
		return Token{}, Errorf(Syntax, loc, "malformed number literal")
	}

	// TimeDelta: integer followed by a unit word.
	if tok, ok, terr := lx.tryScanTimeDeltaUnit(begin, raw, digits, sign, loc); terr != nil {
		return Token{}, terr
	} else if ok {
		return tok, nil
	}

	// Byte-count suffix.
	if tok, ok, serr := lx.tryScanByteSuffix(begin, raw, digits, sign, loc); serr != nil {
		return Token{}, serr
	} else if ok {
		return tok, nil
	}

	val, perr := strconv.ParseInt(digits, 10, 64)
	if perr != nil {
		return Token{}, Errorf(LimitExceeded, loc, "integer out of range")
	}
	if sign == "-" {
		val = -val
	}
	tok, _ := lx.finish(Integer, begin, raw)
	tok.Payload.Int = val
	tok.HasValue = true
	return tok, nil
}

func (lx *Lexer) tryScanExponent(begin Position, raw, intDigits, fracDigits string, loc Location) (Token, bool, error) {
	save := lx.dec.Begin()
	lx.dec.Advance() // consume 'e'/'E'
	expSign := ""
	if c, _ := lx.dec.Current(); c.Rune == '+' || c.Rune == '-' {
		expSign = string(c.Rune)
		lx.dec.Advance()
	}
	expDigits, _, err := lx.scanDigitGroup(loc, isASCIIDigit)
	if err != nil || expDigits == "" {
		save.Rollback()
		return Token{}, false, nil
	}
	save.Commit()
	raw += "e" + expSign + expDigits

	// Exponent magnitude is checked against the literal digits, not via
	// strconv.ParseFloat's range error: ParseFloat reports an out-of-range
	// exponent as ErrRange (alongside ±Inf), which finishFloat would
	// otherwise surface as a malformed-literal Syntax error.
	trimmed := strings.TrimLeft(expDigits, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	mag, magErr := strconv.ParseInt(trimmed, 10, 64)
	if magErr != nil || mag > 308 {
		return Token{}, true, Errorf(LimitExceeded, loc, "exponent magnitude exceeds 308")
	}

	tok, ferr := lx.finishFloat(begin, raw, intDigits, fracDigits, loc)
	return tok, true, ferr
}

func (lx *Lexer) finishFloat(begin Position, raw, intDigits, fracDigits string, loc Location) (Token, error) {
	// Trailing exponent, if not already consumed by the caller.
	if c, _ := lx.dec.Current(); c.Rune == 'e' || c.Rune == 'E' {
		if tok, ok, err := lx.tryScanExponent(begin, raw, intDigits, fracDigits, loc); ok || err != nil {
			return tok, err
		}
	}
	sig := strings.TrimLeft(intDigits+fracDigits, "0")
	if len(sig) > 16 {
		return Token{}, Errorf(LimitExceeded, loc, "float literal exceeds 16 significant digits")
	}
	f, err := strconv.ParseFloat(stripGrouping(raw), 64)
	if err != nil {
		return Token{}, Errorf(Syntax, loc, "malformed float literal")
	}
	tok, _ := lx.finish(Float, begin, raw)
	tok.Payload.Float = f
	tok.HasValue = true
	return tok, nil
}

func stripGrouping(s string) string {
	return strings.ReplaceAll(s, "'", "")
}

func (lx *Lexer) tryScanTimeDeltaUnit(begin Position, raw, digits, sign string, loc Location) (Token, bool, error) {
	save := lx.dec.Begin()
	skippedSpace := false
	if c, _ := lx.dec.Current(); c.Rune == ' ' {
		lx.dec.Advance()
		skippedSpace = true
	}
	word, werr := lx.scanLowerWord()
	if werr != nil {
		save.Rollback()
		return Token{}, false, nil
	}
	unit, ok := timeDeltaUnits[strings.ToLower(word)]
	if !ok || word == "" {
		save.Rollback()
		return Token{}, false, nil
	}
	if skippedSpace && len(word) <= 2 {
		// Short forms (ns, s, m, h, d, w) permit the space to be optional,
		// but nothing in the grammar forbids it either; accept either way.
	}
	save.Commit()
	val, _ := strconv.ParseInt(digits, 10, 64)
	if sign == "-" {
		val = -val
	}
	sp := ""
	if skippedSpace {
		sp = " "
	}
	tok, _ := lx.finish(TimeDelta, begin, raw+sp+word)
	tok.Payload.Delta = TimeDeltaValue{Count: val, Unit: unit}
	tok.HasValue = true
	return tok, true, nil
}

func (lx *Lexer) scanLowerWord() (string, error) {
	var b strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return "", err
		}
		isLetter := (c.Rune >= 'a' && c.Rune <= 'z') || (c.Rune >= 'A' && c.Rune <= 'Z') || c.Rune == 'µ'
		if c.IsEnd() || !isLetter {
			break
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	return b.String(), nil
}

func (lx *Lexer) tryScanByteSuffix(begin Position, raw, digits, sign string, loc Location) (Token, bool, error) {
	save := lx.dec.Begin()
	word, werr := lx.scanLowerWord()
	if werr != nil || word == "" {
		save.Rollback()
		return Token{}, false, nil
	}
	spec, ok := byteSuffixes[strings.ToLower(word)]
	if !ok {
		save.Rollback()
		return Token{}, false, nil
	}
	save.Commit()
	base := decimal.NewFromInt(1000)
	if !spec.base1000 {
		base = decimal.NewFromInt(1024)
	}
	multiplier := decimal.NewFromInt(1)
	for i := 0; i < spec.exponent; i++ {
		multiplier = multiplier.Mul(base)
	}
	d, perr := decimal.NewFromString(digits)
	if perr != nil {
		return Token{}, true, Errorf(Syntax, loc, "malformed integer")
	}
	product := d.Mul(multiplier)
	if !product.IsInteger() {
		return Token{}, true, Errorf(LimitExceeded, loc, "byte count does not fit an exact integer")
	}
	maxI64 := decimal.NewFromInt(9223372036854775807)
	if product.GreaterThan(maxI64) {
		return Token{}, true, Errorf(LimitExceeded, loc, "byte count overflows 64-bit integer")
	}
	val := product.IntPart()
	if sign == "-" {
		val = -val
	}
	tok, _ := lx.finish(Integer, begin, raw+word)
	tok.Payload.Int = val
	tok.HasValue = true
	return tok, true, nil
}
