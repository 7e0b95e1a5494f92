package main

import (
	"context"
	"strconv"
	"time"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/app"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/orm"
	"github.com/iov-one/lockbank/x/bank"
	"github.com/iov-one/lockbank/x/cash"
	"github.com/iov-one/lockbank/x/timelock"
	"github.com/spf13/cobra"
)

func (c *cli) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <genesis.json>",
		Short: "Initialize the state from a genesis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := app.LoadGenesis(args[0])
			if err != nil {
				return err
			}
			return c.withExecutor(func(e *app.Executor) error {
				id, err := e.InitChain(gen, app.ChainInitializers(
					cash.Initializer{},
					timelock.Initializer{},
				))
				if err != nil {
					return err
				}
				return c.printJSON(map[string]interface{}{
					"chain_id": gen.ChainID,
					"version":  id.Version,
				})
			})
		},
	}
}

func (c *cli) deployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Create the bank, owned by the signer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _ := controllers()
			var b *bank.Bank
			err := c.execute("deploy", func(ctx lockbank.Context, db lockbank.KVStore) error {
				var err error
				b, err = ctrl.Deploy(ctx, db)
				return err
			})
			if err != nil {
				return err
			}
			return c.printJSON(b)
		},
	}
}

func (c *cli) lockCmd() *cobra.Command {
	var (
		amount coin.Coin
		unlock string
		label  string
	)
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Lock funds of the signer until the unlock time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := c.blockTime()
			if err != nil {
				return err
			}
			unlockTime, err := parseUnlockTime(now, unlock)
			if err != nil {
				return err
			}

			ctrl, _ := controllers()
			var id []byte
			err = c.execute("lock", func(ctx lockbank.Context, db lockbank.KVStore) error {
				var err error
				id, err = ctrl.LockFunds(ctx, db, unlockTime, label, amount)
				return err
			})
			if err != nil {
				return err
			}
			return c.printJSON(map[string]interface{}{
				"id":     orm.DecodeSequence(id),
				"unlock": unlockTime,
				"amount": amount,
			})
		},
	}
	cmd.Flags().Var(&amount, "amount", "value to lock")
	cmd.Flags().StringVar(&unlock, "unlock", "", "unlock time in RFC3339 format or a duration from now, for example 720h")
	cmd.Flags().StringVar(&label, "label", "", "description of the lock")
	return cmd
}

func (c *cli) withdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <lock id>",
		Short: "Withdraw the whole balance of a lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLockID(args[0])
			if err != nil {
				return err
			}
			ctrl, _ := controllers()
			var w *timelock.Withdrawal
			err = c.execute("withdraw", func(ctx lockbank.Context, db lockbank.KVStore) error {
				var err error
				w, err = ctrl.WithdrawLock(ctx, db, id)
				return err
			})
			if err != nil {
				return err
			}
			return c.printJSON(map[string]interface{}{
				"id":      orm.DecodeSequence(w.LockID),
				"owner":   w.Owner,
				"amount":  w.Amount,
				"penalty": w.Penalty,
				"early":   w.Early(),
			})
		},
	}
}

func (c *cli) withdrawBankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw-bank",
		Short: "Move all funds collected by the bank to its owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _ := controllers()
			var s *bank.Sweep
			err := c.execute("withdraw-bank", func(ctx lockbank.Context, db lockbank.KVStore) error {
				var err error
				s, err = ctrl.WithdrawBank(ctx, db)
				return err
			})
			if err != nil {
				return err
			}
			return c.printJSON(s)
		},
	}
}

// execute runs a state changing operation on behalf of the --as signer.
func (c *cli) execute(name string, op app.Operation) error {
	ctx, err := c.signer(context.Background())
	if err != nil {
		return err
	}
	return c.withExecutor(func(e *app.Executor) error {
		_, err := e.Execute(ctx, name, op)
		return err
	})
}

// parseUnlockTime accepts either an absolute RFC3339 time or a duration
// relative to now.
func parseUnlockTime(now time.Time, raw string) (lockbank.UnixTime, error) {
	if raw == "" {
		return 0, errors.Wrap(errors.ErrEmpty, "unlock time")
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return lockbank.AsUnixTime(now.Add(d)), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "unlock time %q", raw)
	}
	return lockbank.AsUnixTime(t), nil
}

// parseLockID accepts the decimal form of a lock ID.
func parseLockID(raw string) ([]byte, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return nil, errors.Wrapf(errors.ErrInput, "lock id %q", raw)
	}
	return orm.EncodeSequence(n), nil
}
