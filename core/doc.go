/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package core drives template matching over ambiguous phrases.
//
// A Dictum pairs a surface pattern with an output template.  Given a
// Phrase with one or more branches and a list of Dicta, a Serial
// driver tries each Dictum against each branch.  The first success
// for a branch moves the driver along to the next branch.
//
// Work is handed to a Scheduler together with a weight.  Results come
// back through continuations: a Succeed receives a generated value,
// and a Fail receives a reason.  The Scheduler decides when (or if)
// those continuations run, so nothing here blocks or owns a
// goroutine.
//
// When a Dictum fails for a branch, a rescue Strategy gets a chance to
// rewrite the input and try again.  Strategies form a finite chain
// that ends with NoRescue.
//
// The package does no matching itself.  See package match for the
// matchers and package dicta for a Dictum that uses them.
package core
