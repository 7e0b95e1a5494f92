package main

import (
	"context"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/app"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/orm"
	"github.com/iov-one/lockbank/x/timelock"
	"github.com/spf13/cobra"
)

func (c *cli) locksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locks [owner]",
		Short: "List IDs of all locks created by the owner, the signer by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := c.owner(args, 0)
			if err != nil {
				return err
			}
			ctrl, _ := controllers()
			ids := []int64{}
			err = c.query("locks", func(ctx lockbank.Context, db lockbank.ReadOnlyKVStore) error {
				refs, err := ctrl.UserLocks(db, owner)
				for _, ref := range refs {
					ids = append(ids, orm.DecodeSequence(ref))
				}
				return err
			})
			if err != nil {
				return err
			}
			return c.printJSON(ids)
		},
	}
}

func (c *cli) lockIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock-index <lock id> [owner]",
		Short: "Print the position of the lock in the owner list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLockID(args[0])
			if err != nil {
				return err
			}
			owner, err := c.owner(args, 1)
			if err != nil {
				return err
			}
			ctrl, _ := controllers()
			var index int
			err = c.query("lock-index", func(ctx lockbank.Context, db lockbank.ReadOnlyKVStore) error {
				var err error
				index, err = ctrl.LockIndex(db, id, owner)
				return err
			})
			if err != nil {
				return err
			}
			return c.printJSON(index)
		},
	}
}

func (c *cli) detailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <lock id> [owner]",
		Short: "Print the lock created by the owner",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLockID(args[0])
			if err != nil {
				return err
			}
			owner, err := c.owner(args, 1)
			if err != nil {
				return err
			}
			ctrl, _ := controllers()
			var lock *timelock.Lock
			err = c.query("details", func(ctx lockbank.Context, db lockbank.ReadOnlyKVStore) error {
				var err error
				lock, err = ctrl.LockDetails(db, id, owner)
				return err
			})
			if err != nil {
				return err
			}
			return c.printJSON(lock)
		},
	}
}

func (c *cli) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Print the bank balance or the balance of given wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, wallets := controllers()
			var amount coin.Coin
			err := c.query("balance", func(ctx lockbank.Context, db lockbank.ReadOnlyKVStore) error {
				var err error
				if len(args) == 0 {
					amount, err = ctrl.Balance(db)
				} else {
					amount, err = wallets.Balance(db, parseOwner(args[0]))
				}
				return err
			})
			if err != nil {
				return err
			}
			return c.printJSON(amount)
		},
	}
}

// owner returns the owner given as the n-th argument or the --as signer.
func (c *cli) owner(args []string, n int) (lockbank.Address, error) {
	if len(args) > n {
		return parseOwner(args[n]), nil
	}
	if c.conf.As == "" {
		return nil, errors.Wrapf(errors.ErrInput, "owner argument or --%s is required", flagAs)
	}
	return parseOwner(c.conf.As), nil
}

func (c *cli) query(name string, q app.Query) error {
	return c.withExecutor(func(e *app.Executor) error {
		return e.Query(context.Background(), name, q)
	})
}
