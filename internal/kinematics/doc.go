// Package kinematics holds the closed-form motion models used by the
// simulation: constant-rate deceleration along a surface and gravity-only
// projectile motion.
//
// The step-by-step integrators in the flight and ground packages use these
// models wherever an exact solution exists, so that phases such as a bounce
// arc or a ball rolling to a stop on flat ground land exactly on their
// boundary instead of overshooting it by up to one timestep.
package kinematics
