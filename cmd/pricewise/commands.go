package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/service"
	"github.com/pricewise/pricewise-api/internal/utils"
)

func parseProductID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", utils.ErrInvalidProductID, arg)
	}
	return id, nil
}

func parseTargetPrice(arg string) (float64, error) {
	price, err := strconv.ParseFloat(arg, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("%w: %q", utils.ErrInvalidTargetPrice, arg)
	}
	return price, nil
}

func newDealCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deal <product-id>",
		Short: "Compare the two sellers for a catalog product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				deal, err := service.NewDealService(s.catalog).Compare(ctx, id)
				if err != nil {
					return err
				}
				return s.print(deal)
			})
		},
	}
}

func newFavCmd(opts *options) *cobra.Command {
	fav := &cobra.Command{
		Use:   "fav",
		Short: "Toggle and list favourite products",
	}
	fav.AddCommand(
		&cobra.Command{
			Use:   "toggle <product-id>",
			Short: "Add or remove a favourite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				return opts.run(cmd, func(ctx context.Context, s *session) error {
					ids, err := s.state.Favourites.Toggle(ctx, id)
					if err != nil {
						return err
					}
					return s.print(map[string]any{"isFavourite": slices.Contains(ids, id), "favourites": ids})
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List favourite product ids",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.run(cmd, func(ctx context.Context, s *session) error {
					return s.print(s.state.Favourites.List())
				})
			},
		},
	)
	return fav
}

func newAlertCmd(opts *options) *cobra.Command {
	alert := &cobra.Command{
		Use:   "alert",
		Short: "Manage price alerts",
	}

	var live bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List alerts, optionally resolved against the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				stored := s.state.Alerts.List()
				if !live {
					return s.print(stored)
				}
				ids := make([]int, 0, len(stored))
				for _, a := range stored {
					ids = append(ids, a.ProductID)
				}
				products, err := s.catalog.GetProducts(ctx, ids)
				if err != nil {
					return err
				}
				return s.print(service.ResolveAlerts(stored, products))
			})
		},
	}
	list.Flags().BoolVar(&live, "live", false, "resolve current price and status from the catalog")

	alert.AddCommand(
		&cobra.Command{
			Use:   "add <product-id> <target-price>",
			Short: "Create an alert; an existing alert is left unchanged",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				price, err := parseTargetPrice(args[1])
				if err != nil {
					return err
				}
				return opts.run(cmd, func(ctx context.Context, s *session) error {
					alerts, added, err := s.state.Alerts.Add(ctx, id, price)
					if err != nil {
						return err
					}
					return s.print(map[string]any{"added": added, "alerts": alerts})
				})
			},
		},
		&cobra.Command{
			Use:   "update <product-id> <target-price>",
			Short: "Change the target price of an alert",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				price, err := parseTargetPrice(args[1])
				if err != nil {
					return err
				}
				return opts.run(cmd, func(ctx context.Context, s *session) error {
					alerts, updated, err := s.state.Alerts.Update(ctx, id, price)
					if err != nil {
						return err
					}
					if !updated {
						return fmt.Errorf("%w: product %d", utils.ErrAlertNotFound, id)
					}
					return s.print(alerts)
				})
			},
		},
		&cobra.Command{
			Use:   "remove <product-id>",
			Short: "Remove an alert",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				return opts.run(cmd, func(ctx context.Context, s *session) error {
					alerts, err := s.state.Alerts.Remove(ctx, id)
					if err != nil {
						return err
					}
					return s.print(alerts)
				})
			},
		},
		list,
	)
	return alert
}

func newHistoryCmd(opts *options) *cobra.Command {
	history := &cobra.Command{
		Use:   "history",
		Short: "Manage recently viewed products",
	}
	history.AddCommand(
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Fetch a product from the catalog and record it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				return opts.run(cmd, func(ctx context.Context, s *session) error {
					p, err := s.catalog.GetProduct(ctx, id)
					if err != nil {
						return err
					}
					items, err := s.state.History.Add(ctx, *p)
					if err != nil {
						return err
					}
					return s.print(items)
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List recently viewed products, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.run(cmd, func(ctx context.Context, s *session) error {
					return s.print(s.state.History.List())
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.run(cmd, func(ctx context.Context, s *session) error {
					if err := s.state.History.Clear(ctx); err != nil {
						return err
					}
					return s.print([]models.HistoryItem{})
				})
			},
		},
	)
	return history
}
