package coin

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/errors"
)

// Coin is an amount of the single fungible unit handled by the application,
// expressed in its smallest denomination.
type Coin struct {
	Amount uint64 `json:"amount"`
}

// NewCoin creates a new coin object
func NewCoin(amount uint64) Coin {
	return Coin{Amount: amount}
}

// Add combines two coins. Returns an error if the result would overflow.
func (c Coin) Add(o Coin) (Coin, error) {
	if c.Amount > math.MaxUint64-o.Amount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%d + %d", c.Amount, o.Amount)
	}
	return Coin{Amount: c.Amount + o.Amount}, nil
}

// Subtract returns the result of taking given amount from this coin. Returns
// an error if there is not enough value.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	if c.Amount < amount.Amount {
		return Coin{}, errors.Wrapf(errors.ErrAmount, "cannot subtract %d from %d", amount.Amount, c.Amount)
	}
	return Coin{Amount: c.Amount - amount.Amount}, nil
}

// Equals returns true if both coins represent the same value.
func (c Coin) Equals(o Coin) bool {
	return c.Amount == o.Amount
}

// IsZero returns true if the coin holds no value.
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// Split divides the coin value using given rate. First returned coin is
// floor(c * rate), second is the rest, so that both always add up to the
// original value. Only proper fractions (within [0, 1]) are accepted.
//
// Computation is done using quotient and remainder decomposition so that no
// intermediate value can overflow.
func Split(c Coin, rate lockbank.Fraction) (Coin, Coin, error) {
	if err := rate.Validate(); err != nil {
		return Coin{}, Coin{}, errors.Wrap(err, "rate")
	}
	if !rate.IsProper() {
		return Coin{}, Coin{}, errors.Wrapf(errors.ErrInput, "rate %d/%d greater than one", rate.Numerator, rate.Denominator)
	}

	n, d := uint64(rate.Numerator), uint64(rate.Denominator)
	q, r := c.Amount/d, c.Amount%d
	part := q*n + r*n/d
	return Coin{Amount: part}, Coin{Amount: c.Amount - part}, nil
}

// String returns the amount in base 10.
func (c Coin) String() string {
	return strconv.FormatUint(c.Amount, 10)
}

// UnmarshalJSON accepts a plain number, a number encoded as a string or the
// full object representation.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var num uint64
	if err := json.Unmarshal(raw, &num); err == nil {
		c.Amount = num
		return nil
	}

	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		val, err := ParseCoin(human)
		if err != nil {
			return err
		}
		*c = val
		return nil
	}

	var obj struct {
		Amount uint64 `json:"amount"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	c.Amount = obj.Amount
	return nil
}

// ParseCoin parse a human readable coin representation. Underscores may be
// used as digit separators, ie "1_000_000_000".
func ParseCoin(h string) (Coin, error) {
	s := strings.Replace(strings.TrimSpace(h), "_", "", -1)
	if s == "" {
		return Coin{}, errors.Wrap(errors.ErrInput, "empty amount")
	}
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %q", h)
		}
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid amount %q", h)
	}
	return Coin{Amount: val}, nil
}

// Set updates this coin value to what is provided. This method implements
// flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseCoin(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}

// Type implements pflag.Value interface.
func (c *Coin) Type() string {
	return "coin"
}
